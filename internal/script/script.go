// Package script replays recorded pointer, wheel and control events against
// a viewer without a window.
package script

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/msalah0e/kgview/internal/viewer"
)

// Event kinds.
const (
	KindDown     = "down"
	KindMove     = "move"
	KindUp       = "up"
	KindDblClick = "dblclick"
	KindWheel    = "wheel"
	KindReset    = "reset"
	KindZoomIn   = "zoom_in"
	KindZoomOut  = "zoom_out"
	KindPan      = "pan"
	KindFilter   = "filter"
	KindSearch   = "search"
	KindLabels   = "labels"
	KindNodeSize = "node_size"
	KindRelayout = "relayout"
	KindFit      = "fit"
	KindFocus    = "focus"
)

// ErrUnknownKind is returned for an event whose kind is not recognized.
var ErrUnknownKind = errors.New("unknown event kind")

// Event is one scripted input. X and Y are screen pixels; for pan they are
// the offset.
type Event struct {
	Kind    string  `toml:"kind" validate:"required"`
	X       float64 `toml:"x"`
	Y       float64 `toml:"y"`
	Delta   float64 `toml:"delta"`
	Value   string  `toml:"value" validate:"required_if=Kind focus"`
	Enabled *bool   `toml:"enabled" validate:"required_if=Kind labels"`
	Size    float64 `toml:"size" validate:"gte=0"`
	Zoom    float64 `toml:"zoom" validate:"gte=0"`
}

// Script is an ordered list of events.
type Script struct {
	Events []Event `toml:"event"`
}

var known = map[string]bool{
	KindDown: true, KindMove: true, KindUp: true, KindDblClick: true,
	KindWheel: true, KindReset: true, KindZoomIn: true, KindZoomOut: true,
	KindPan: true, KindFilter: true, KindSearch: true, KindLabels: true,
	KindNodeSize: true, KindRelayout: true, KindFit: true, KindFocus: true,
}

// Load reads a script file.
func Load(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open script: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes and checks a TOML script.
func Parse(r io.Reader) (*Script, error) {
	var s Script
	if _, err := toml.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}

	validate := validator.New()
	var problems []error
	for i, e := range s.Events {
		if !known[e.Kind] {
			problems = append(problems, fmt.Errorf("event %d: %w %q", i, ErrUnknownKind, e.Kind))
			continue
		}
		if err := validate.Struct(e); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) {
				for _, fe := range verrs {
					problems = append(problems, fmt.Errorf("event %d (%s): field %s fails %q", i, e.Kind, fe.Field(), fe.Tag()))
				}
				continue
			}
			problems = append(problems, fmt.Errorf("event %d: %w", i, err))
		}
	}
	if len(problems) > 0 {
		return nil, errors.Join(problems...)
	}
	return &s, nil
}

// Apply feeds every event to v in order and stops at the first failure.
func (s *Script) Apply(v *viewer.Viewer) error {
	for i, e := range s.Events {
		if err := Apply(v, e); err != nil {
			return fmt.Errorf("event %d (%s): %w", i, e.Kind, err)
		}
	}
	return nil
}

// Apply feeds one event to v.
func Apply(v *viewer.Viewer, e Event) error {
	ctrl := v.Controller()
	st := v.State()

	switch e.Kind {
	case KindDown:
		ctrl.PointerDown(e.X, e.Y)
	case KindMove:
		ctrl.PointerMove(e.X, e.Y)
	case KindUp:
		ctrl.PointerUp(e.X, e.Y)
	case KindDblClick:
		ctrl.DoubleClick(e.X, e.Y)
	case KindWheel:
		ctrl.Wheel(e.Delta)
	case KindReset:
		st.Reset()
	case KindZoomIn:
		st.ZoomIn()
	case KindZoomOut:
		st.ZoomOut()
	case KindPan:
		st.PanBy(e.X, e.Y)
	case KindFilter:
		return st.SetTypeFilter(e.Value)
	case KindSearch:
		st.Search = e.Value
	case KindLabels:
		if e.Enabled == nil {
			return errors.New("labels event needs enabled")
		}
		st.ShowLabels = *e.Enabled
	case KindNodeSize:
		st.SetNodeSize(e.Size)
	case KindRelayout:
		v.Relayout()
	case KindFit:
		v.Fit()
	case KindFocus:
		zoom := e.Zoom
		if zoom == 0 {
			zoom = st.Zoom
		}
		w, h := v.Size()
		if !ctrl.Focus(e.Value, zoom, float64(w), float64(h)) {
			return fmt.Errorf("focus: no node %q", e.Value)
		}
	default:
		return fmt.Errorf("%w %q", ErrUnknownKind, e.Kind)
	}
	return nil
}
