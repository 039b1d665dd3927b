package controller

// RadioStatus is the outcome of a status check. It is only ever returned,
// never stored.
type RadioStatus string

const (
	RadioOn                RadioStatus = "RADIO_ON"
	RadioOff               RadioStatus = "RADIO_OFF"
	StatusNotConnected     RadioStatus = "NOT_CONNECTED_TO_ROUTER"
	StatusVPNConnected     RadioStatus = "VPN_CONNECTED"
	StatusUnexpectedFailed RadioStatus = "UNEXPECTED_FAILURE"
)

// ActionResult is the outcome of a toggle operation.
type ActionResult string

const (
	ResultSuccess          ActionResult = "SUCCESS"
	ResultAlreadyOn        ActionResult = "ALREADY_ON"
	ResultAlreadyOff       ActionResult = "ALREADY_OFF"
	ResultNotConnected     ActionResult = "NOT_CONNECTED_TO_ROUTER"
	ResultVPNConnected     ActionResult = "VPN_CONNECTED"
	ResultUnexpectedFailed ActionResult = "UNEXPECTED_FAILURE"
)
