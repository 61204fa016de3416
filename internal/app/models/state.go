package models

// AppState is the display state a client renders: result list, selection and status.
type AppState struct {
	Seq      uint64  `json:"seq"`
	Query    string  `json:"query"`
	Places   []Place `json:"places"`
	Selected *int    `json:"selected,omitempty"`
	Loading  bool    `json:"loading"`
	Error    string  `json:"error,omitempty"`
}

// SelectedPlace returns the selected place, if any.
func (s AppState) SelectedPlace() (Place, bool) {
	if s.Selected == nil || *s.Selected < 0 || *s.Selected >= len(s.Places) {
		return Place{}, false
	}
	return s.Places[*s.Selected], true
}
