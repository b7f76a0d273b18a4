package gui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Mood-Music-Go/pkg/recommend"
)

type fakeEngine struct {
	moods []string
	res   recommend.Result
	err   error
}

func (f *fakeEngine) Recommend(_ context.Context, mood string) (recommend.Result, error) {
	f.moods = append(f.moods, mood)
	return f.res, f.err
}

type warning struct{ title, message string }

func newTestForm(t *testing.T, engine Recommender) (*Form, *[]warning) {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)
	w := a.NewWindow(Title)
	f := NewForm(w, engine)
	var warnings []warning
	f.Warn = func(title, message string) { warnings = append(warnings, warning{title, message}) }
	return f, &warnings
}

func TestRecommendShowsTracks(t *testing.T) {
	engine := &fakeEngine{res: recommend.Result{Genre: "Pop", Tracks: []string{"A by B", "C by D", "E by F", "G by H", "I by J"}}}
	f, warnings := newTestForm(t, engine)

	test.Type(f.Entry, "I feel happy today")
	test.Tap(f.Recommend)

	require.Equal(t, []string{"I feel happy today"}, engine.moods)
	assert.Empty(t, *warnings)
	lines := strings.Split(f.Result.Text, "\n")
	assert.Equal(t, ResultHeading, lines[0])
	assert.Equal(t, []string{"A by B", "C by D", "E by F", "G by H", "I by J"}, lines[1:])
}

func TestRecommendEmptyInputWarns(t *testing.T) {
	for _, input := range []string{"", "   \n\t"} {
		engine := &fakeEngine{}
		f, warnings := newTestForm(t, engine)
		f.Entry.SetText(input)
		test.Tap(f.Recommend)

		assert.Empty(t, engine.moods, "engine called for %q", input)
		require.Len(t, *warnings, 1)
		assert.Equal(t, EmptyWarning, (*warnings)[0].message)
		assert.Empty(t, f.Result.Text)
	}
}

func TestRecommendErrorWarns(t *testing.T) {
	engine := &fakeEngine{err: errors.New("catalog unavailable")}
	f, warnings := newTestForm(t, engine)
	f.Result.SetText("stale")
	f.Entry.SetText("calm")
	test.Tap(f.Recommend)

	require.Len(t, *warnings, 1)
	assert.Equal(t, "Error", (*warnings)[0].title)
	assert.Contains(t, (*warnings)[0].message, "catalog unavailable")
	assert.Empty(t, f.Result.Text)
}

func TestBackClears(t *testing.T) {
	engine := &fakeEngine{res: recommend.Result{Tracks: []string{"A by B"}}}
	f, _ := newTestForm(t, engine)
	f.Entry.SetText("sad")
	test.Tap(f.Recommend)
	require.NotEmpty(t, f.Result.Text)

	test.Tap(f.Back)
	assert.Empty(t, f.Entry.Text)
	assert.Empty(t, f.Result.Text)
	assert.Len(t, engine.moods, 1, "back must not call the engine")
}

func TestLabels(t *testing.T) {
	f, _ := newTestForm(t, &fakeEngine{})
	assert.Equal(t, RecommendLabel, f.Recommend.Text)
	assert.Equal(t, BackLabel, f.Back.Text)
	assert.Equal(t, Title, f.window.Title())
}
