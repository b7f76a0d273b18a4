// Package gui builds the desktop recommendation form.
package gui

import (
	"context"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	log "github.com/sirupsen/logrus"

	"Mood-Music-Go/pkg/recommend"
)

// Window title and widget labels.
const (
	Title          = "Music Recommendation System"
	PromptLabel    = "Describe your mood or preference:"
	RecommendLabel = "Recommend"
	BackLabel      = "Back"
	ResultHeading  = "Recommended songs:"
	EmptyWarning   = "Please describe your mood or preference."
)

// Recommender produces a recommendation for mood text.
type Recommender interface {
	Recommend(ctx context.Context, mood string) (recommend.Result, error)
}

// Form is the single-window recommendation UI.
type Form struct {
	window    fyne.Window
	engine    Recommender
	Entry     *widget.Entry
	Result    *widget.Label
	Recommend *widget.Button
	Back      *widget.Button

	// Warn shows a message to the user. It defaults to an information
	// dialog on the form's window.
	Warn func(title, message string)
}

// NewForm lays out the form in window. It does not show the window.
func NewForm(window fyne.Window, engine Recommender) *Form {
	f := &Form{
		window: window,
		engine: engine,
		Entry:  widget.NewMultiLineEntry(),
		Result: widget.NewLabel(""),
	}
	f.Entry.SetPlaceHolder("e.g. I feel happy today")
	f.Entry.SetMinRowsVisible(4)
	f.Entry.Wrapping = fyne.TextWrapWord
	f.Result.Wrapping = fyne.TextWrapWord
	f.Warn = func(title, message string) {
		dialog.ShowInformation(title, message, f.window)
	}
	f.Recommend = widget.NewButton(RecommendLabel, f.OnRecommend)
	f.Recommend.Importance = widget.HighImportance
	f.Back = widget.NewButton(BackLabel, f.OnBack)

	window.SetContent(container.NewVBox(
		widget.NewLabel(PromptLabel),
		f.Entry,
		container.NewHBox(f.Recommend, f.Back),
		widget.NewSeparator(),
		f.Result,
	))
	return f
}

// OnRecommend validates the input and renders a recommendation. It runs on
// the UI callback and blocks until the catalog answers.
func (f *Form) OnRecommend() {
	mood := f.Entry.Text
	if strings.TrimSpace(mood) == "" {
		f.Warn("Warning", EmptyWarning)
		return
	}
	res, err := f.engine.Recommend(context.Background(), mood)
	if err != nil {
		log.WithError(err).Warn("recommendation failed")
		f.Result.SetText("")
		f.Warn("Error", err.Error())
		return
	}
	f.Result.SetText(ResultHeading + "\n" + strings.Join(res.Tracks, "\n"))
}

// OnBack clears the input and results.
func (f *Form) OnBack() {
	f.Entry.SetText("")
	f.Result.SetText("")
}
