// Package selection keeps the selected harvester run, the search box
// buffer and the shared query string consistent with each other.
package selection

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/altinukshini/harvester-reports/internal/model"
	"github.com/altinukshini/harvester-reports/internal/query"
)

// ErrUnknownRun is returned when a run id is not in the configured list.
var ErrUnknownRun = errors.New("unknown run")

// Publisher is the shared query state the synchronizer reads and writes.
type Publisher interface {
	State() model.QueryState
	Update(model.QueryState)
}

// Config is the run list the selector works on, fixed at construction.
type Config struct {
	Runs       []model.Run
	DefaultRun *model.Run
}

// ConfigFromPayload adapts a runs payload. The default run is resolved
// against the list so that selections compare by identity.
func ConfigFromPayload(p model.RunsPayload) Config {
	cfg := Config{Runs: p.Runs}
	if p.DefaultRun != nil {
		if r := p.RunByID(p.DefaultRun.ID); r != nil {
			cfg.DefaultRun = r
		} else {
			def := *p.DefaultRun
			cfg.DefaultRun = &def
		}
	}
	return cfg
}

// Synchronizer is the run selection state machine.
type Synchronizer struct {
	runs       []model.Run
	defaultRun *model.Run
	pub        Publisher

	selected *model.Run
	input    string
	expr     query.Expression
	lastText string
}

func New(cfg Config, pub Publisher) *Synchronizer {
	return &Synchronizer{
		runs:       cfg.Runs,
		defaultRun: cfg.DefaultRun,
		pub:        pub,
	}
}

// Mount adopts the run and text encoded in the current query string when
// it names a known run. Otherwise the default run, if any, is selected
// and published with no free text.
func (s *Synchronizer) Mount() {
	initial := s.pub.State().QueryString
	if initial != "" {
		parsed := query.Parse(initial, s.runs)
		if parsed.Run != nil {
			s.selected = parsed.Run
			s.input = parsed.Text
			s.lastText = parsed.Text
			s.expr = query.New(parsed.Run, parsed.Text)
			log.Debug().Str("run", parsed.Run.ID).Msg("selection: adopted run from query")
			return
		}
	}
	if s.defaultRun != nil {
		s.selected = s.defaultRun
		s.input = ""
		s.publish(s.defaultRun, "")
		log.Debug().Str("run", s.defaultRun.ID).Msg("selection: selected default run")
	}
}

// SelectRun switches to run id, keeping whatever is typed in the search box.
func (s *Synchronizer) SelectRun(id string) error {
	for i := range s.runs {
		if s.runs[i].ID == id {
			s.selected = &s.runs[i]
			s.publish(s.selected, s.input)
			return nil
		}
	}
	return errors.Wrapf(ErrUnknownRun, "select run %q", id)
}

// SetInput changes the search box buffer only.
func (s *Synchronizer) SetInput(text string) {
	s.input = text
}

// Submit publishes the selected run (or none) with the search box text.
func (s *Synchronizer) Submit() {
	s.publish(s.selected, s.input)
}

// Resync re-derives the selection and the search box from the shared
// query string after it was changed by someone else.
func (s *Synchronizer) Resync() {
	q := s.pub.State().QueryString
	if q == s.expr.String() {
		return
	}
	parsed := query.Parse(q, s.runs)
	s.selected = parsed.Run
	if s.selected == nil {
		s.selected = s.defaultRun
	}
	s.input = parsed.Text
	s.lastText = parsed.Text
	s.expr = query.New(s.selected, parsed.Text)
}

func (s *Synchronizer) publish(run *model.Run, text string) {
	s.expr = query.New(run, text)
	s.lastText = s.expr.Text
	next := s.pub.State()
	next.QueryString = s.expr.String()
	s.pub.Update(next)
}

// Selected returns the selected run, or nil.
func (s *Synchronizer) Selected() *model.Run {
	return s.selected
}

func (s *Synchronizer) Input() string {
	return s.input
}

// LastText is the free text of the last published query.
func (s *Synchronizer) LastText() string {
	return s.lastText
}

func (s *Synchronizer) Runs() []model.Run {
	return s.runs
}

// Expression is the last published or adopted query, unserialized.
func (s *Synchronizer) Expression() query.Expression {
	return s.expr
}
