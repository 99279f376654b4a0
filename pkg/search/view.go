package search

// DragState describes a drag-and-drop gesture over the drop zone.
type DragState int

const (
	DragIdle DragState = iota
	DragActive
	DragRejected
)

const (
	Placeholder    = "Search for a car, Enter make, model or use our AI image search"
	PromptIdle     = "Drag & drop a car image or click to select"
	PromptDragging = "Leave the file here to upload"
	SupportHint    = "Supports: JPG, PNG (max 5MB)"
	LabelSearch    = "Search with this Image"
	LabelUploading = "Uploading..."
)

// View is the presentation state derived from a Snapshot.
type View struct {
	Placeholder  string `json:"placeholder"`
	CameraActive bool   `json:"camera_active"`

	ShowImageForm bool   `json:"show_image_form"`
	ShowDropZone  bool   `json:"show_drop_zone"`
	DropPrompt    string `json:"drop_prompt,omitempty"`
	DragReject    string `json:"drag_reject,omitempty"`
	SupportHint   string `json:"support_hint,omitempty"`

	ShowPreview bool   `json:"show_preview"`
	PreviewSrc  string `json:"-"`
	ShowRemove  bool   `json:"show_remove"`

	ShowSubmit     bool   `json:"show_submit"`
	SubmitLabel    string `json:"submit_label,omitempty"`
	SubmitDisabled bool   `json:"submit_disabled"`
}

// Derive computes what the widget should display.
func Derive(s Snapshot, drag DragState) View {
	v := View{
		Placeholder:   Placeholder,
		CameraActive:  s.Mode == ModeImage,
		ShowImageForm: s.Mode == ModeImage,
	}
	if !v.ShowImageForm {
		return v
	}

	if data, ok := s.Preview.Data(); ok {
		v.ShowPreview = true
		v.PreviewSrc = data
	}
	v.ShowDropZone = s.Status == StatusEmpty || s.Status == StatusFailed
	if v.ShowDropZone {
		v.DropPrompt = PromptIdle
		if drag == DragActive {
			v.DropPrompt = PromptDragging
		}
		if drag == DragRejected {
			v.DragReject = MsgInvalidType
		}
		v.SupportHint = SupportHint
	}
	v.ShowRemove = s.Status == StatusReady || s.Status == StatusFailed

	switch s.Status {
	case StatusDecoding:
		v.ShowSubmit = true
		v.SubmitLabel = LabelUploading
		v.SubmitDisabled = true
	case StatusReady:
		v.ShowSubmit = true
		v.SubmitLabel = LabelSearch
	}
	return v
}
