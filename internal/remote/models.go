package remote

// Key is a logical remote-control key
type Key string

// Directional and selection keys: sent as a down/up POST pair
const (
	KeyDPadUp    Key = "dpad_up"
	KeyDPadDown  Key = "dpad_down"
	KeyDPadLeft  Key = "dpad_left"
	KeyDPadRight Key = "dpad_right"
	KeySelect    Key = "select"
)

// System keys: sent as a single POST with no down/up marker
const (
	KeyHome Key = "home"
	KeyBack Key = "back"
	KeyMenu Key = "menu"
)

// directionalKeys marks keys needing the down/up pair
var directionalKeys = map[Key]bool{
	KeyDPadUp:    true,
	KeyDPadDown:  true,
	KeyDPadLeft:  true,
	KeyDPadRight: true,
	KeySelect:    true,
}

// MediaAction is a media transport action
type MediaAction string

const (
	MediaPlay         MediaAction = "play"
	MediaPause        MediaAction = "pause"
	MediaStop         MediaAction = "stop"
	MediaScanForward  MediaAction = "scan_forward"
	MediaScanBackward MediaAction = "scan_backwards"
)

// Key action markers for the down/up pair
const (
	keyActionDown = "keyDown"
	keyActionUp   = "keyUp"
)

// sentinelOK is the protocol's success convention: a JSON body whose
// description field equals "OK" means success, independent of HTTP status
const sentinelOK = "OK"

// apiResponse is the device's universal response envelope. The description
// field doubles as success sentinel, error text, and (on pin/verify) the
// pairing token.
type apiResponse struct {
	Description string `json:"description"`
}

// pinDisplayRequest asks the device to show a pairing PIN on screen
type pinDisplayRequest struct {
	FriendlyName string `json:"friendlyName"`
}

// pinVerifyRequest submits the on-screen PIN
type pinVerifyRequest struct {
	Pin string `json:"pin"`
}

// keyRequest carries the optional down/up marker for a key press
type keyRequest struct {
	KeyActionType string `json:"keyActionType,omitempty"`
}

// mediaRequest carries media transport parameters
type mediaRequest struct {
	// Duration in seconds for scan actions
	Duration int `json:"duration,omitempty"`
	// Speed multiplier for scan actions
	Speed int `json:"speed,omitempty"`
}

// textRequest sends a single character of typed text
type textRequest struct {
	Text string `json:"text"`
}
