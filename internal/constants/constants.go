package constants

import "time"

const (
	// Backend endpoints, relative to the configured API URL
	EndpointGetAllFunctions     = "/functions/getAllFunctions"
	EndpointInstallFunction     = "/functions/installFunction"
	EndpointUninstallFunction   = "/functions/uninstallFunction"
	EndpointGetFunctionDetails  = "/functions/getFunctionDetails"
	EndpointGetFunctionFileCode = "/functions/getFunctionFileCode"
	EndpointTestFunction        = "/functions/testFunction"
	EndpointFunctionEvents      = "/functions/events"

	DefaultAPIURL         = "http://localhost:9000/api"
	DefaultRequestTimeout = 30 * time.Second
	DefaultPollInterval   = 5 * time.Second

	// Owner of the official functions repository
	OfficialOwner = "memphisdev"

	// Version selected in the details view until the user picks one
	LatestVersion = "latest"

	HeaderRequestID = "X-Request-ID"
)
