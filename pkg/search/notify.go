package search

// Level is the severity of a user-facing notification.
type Level string

const (
	LevelError   Level = "error"
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
)

// User-facing messages emitted by the widget.
const (
	MsgEnterSearchTerm = "Please enter a search term"
	MsgUploadFirst     = "Please upload an image first"
	MsgTooLarge        = "Image size must be less than 5MB"
	MsgInvalidType     = "Invalid image type"
	MsgUploaded        = "Image uploaded successfully"
	MsgReadFailed      = "Failed to read the image"
	MsgRemoved         = "Image removed"
)

// Notification is a transient message for the user.
type Notification struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Notifier receives notifications. Implementations must not block and must
// not call back into the widget.
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

func errorNote(msg string) Notification   { return Notification{Level: LevelError, Message: msg} }
func successNote(msg string) Notification { return Notification{Level: LevelSuccess, Message: msg} }
func infoNote(msg string) Notification    { return Notification{Level: LevelInfo, Message: msg} }
