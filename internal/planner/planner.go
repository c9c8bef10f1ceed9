// Package planner orchestrates a single move-static-members planning
// session: eligibility, dependencies, candidates, naming, confirmation.
package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mwhitby/statmv/internal/candidates"
	"github.com/mwhitby/statmv/internal/deps"
	"github.com/mwhitby/statmv/internal/history"
	"github.com/mwhitby/statmv/internal/lang"
	"github.com/mwhitby/statmv/internal/members"
	"github.com/mwhitby/statmv/internal/model"
	"github.com/mwhitby/statmv/internal/naming"
	"github.com/mwhitby/statmv/internal/project"
)

// State tracks a session through its life.
type State int

const (
	Idle State = iota
	CollectingInput
	Completed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case CollectingInput:
		return "collecting-input"
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	ErrSessionReused      = errors.New("planning session already ran")
	ErrTypeNotFound       = errors.New("type not found")
	ErrUnknownMember      = errors.New("unknown member")
	ErrUnknownDestination = errors.New("unknown destination type")
)

// Request identifies what the refactoring was invoked on.
type Request struct {
	// Document is the repo-relative path being edited. Empty defaults to
	// the file declaring the resolved type.
	Document string
	// TypeName is the selected type, bare or qualified.
	TypeName string
	// Member optionally names the member the user invoked on. It only
	// pre-checks one picker row; eligibility ignores it.
	Member string
}

// Proposal is the assembled planning data handed to the confirmation
// step.
type Proposal struct {
	Type         model.TypeDecl
	Selections   []model.MemberSelection
	Dependencies model.DependencyMap
	Candidates   []model.TypeNameCandidate
	DefaultName  string
	DefaultFile  string
}

// Confirmation carries the user's decision back from the confirmer.
type Confirmation struct {
	Affirmed bool
	// Destination is the final chosen type name. For a new type, empty
	// accepts the proposal's default; for an existing type it must match
	// a candidate.
	Destination string
	// CreateNew selects between creating Destination and moving into an
	// existing candidate.
	CreateNew bool
	// Members lists the names left checked. Nil keeps the seeded rows.
	Members []string
}

// Confirmer is the user-facing confirmation step. It renders the
// proposal however it likes and reports the decision.
type Confirmer interface {
	Confirm(ctx context.Context, p *Proposal) (Confirmation, error)
}

// Session runs one planning pass over a snapshot. A session is one-shot:
// Plan runs exactly once, and every exit leaves the session in a terminal
// state. Sessions are not safe for concurrent use; sharing a History
// across sessions is the caller's concern.
type Session struct {
	Snap      *project.Snapshot
	History   *history.History
	Confirmer Confirmer

	// Scanner overrides the tag-based dependency scanner when set.
	Scanner deps.Scanner
	// IsValid overrides the language's member validity oracle when set.
	IsValid func(name string) bool

	state State
}

// NewSession returns an idle session. hist may be nil, which disables
// recency marking and history recording.
func NewSession(snap *project.Snapshot, hist *history.History, confirmer Confirmer) *Session {
	return &Session{Snap: snap, History: hist, Confirmer: confirmer}
}

// State reports where the session is in its life.
func (s *Session) State() State {
	return s.state
}

// Plan assembles a move plan for req. It returns a plan with Cancelled
// set when the confirmer declines, and an error for cancellation of the
// underlying scan or for invalid input. A successful plan with zero
// eligible members is empty but Completed: nothing to move is a valid
// outcome, not a failure. Only an affirmed plan records its destination
// in History.
func (s *Session) Plan(ctx context.Context, req Request) (*model.Plan, error) {
	if s.state != Idle {
		return nil, fmt.Errorf("%w: state %s", ErrSessionReused, s.state)
	}
	s.state = CollectingInput

	decl, ok := s.Snap.ResolveType(req.Document, req.TypeName)
	if !ok {
		s.state = Cancelled
		return nil, fmt.Errorf("%w: %q", ErrTypeNotFound, req.TypeName)
	}

	sourceDoc := req.Document
	if sourceDoc == "" {
		sourceDoc = decl.File
	}

	plan := &model.Plan{
		Language:       s.Snap.Language.Name,
		SourceType:     decl.Qualified,
		SourceDocument: sourceDoc,
	}

	isValid := s.IsValid
	if isValid == nil {
		isValid = s.Snap.Language.ValidMember
	}
	eligible := members.Filter(s.Snap.Members(decl.Qualified), isValid)
	if len(eligible) == 0 {
		s.state = Completed
		return plan, nil
	}

	selections := members.Seed(eligible, req.Member)

	scanner := s.Scanner
	if scanner == nil {
		scanner = &deps.TagScanner{Type: decl.Qualified}
	}
	dm, err := scanner.FindMemberDependencies(ctx, eligible, s.Snap)
	if err != nil {
		s.state = Cancelled
		return nil, fmt.Errorf("scanning dependencies: %w", err)
	}

	cands := candidates.Enumerate(s.Snap, decl, sourceDoc, s.History)
	defaultName := naming.DefaultTypeName(decl.Name, cands)

	proposal := &Proposal{
		Type:         decl,
		Selections:   selections,
		Dependencies: dm,
		Candidates:   cands,
		DefaultName:  defaultName,
		DefaultFile:  naming.FileName(defaultName, s.Snap.Language),
	}

	conf, err := s.Confirmer.Confirm(ctx, proposal)
	if err != nil {
		s.state = Cancelled
		return nil, fmt.Errorf("confirmation: %w", err)
	}
	if !conf.Affirmed {
		s.state = Cancelled
		plan.Cancelled = true
		return plan, nil
	}

	moved, err := checkedMembers(eligible, selections, conf.Members)
	if err != nil {
		s.state = Cancelled
		return nil, err
	}

	if conf.CreateNew {
		name := conf.Destination
		if name == "" {
			name = defaultName
		}
		plan.CreateNew = true
		plan.Destination = qualifyName(name, decl.Namespace, s.Snap.Language)
		plan.DestinationFile = naming.FileName(name, s.Snap.Language)
	} else {
		cand, ok := matchCandidate(cands, conf.Destination)
		if !ok {
			s.state = Cancelled
			return nil, fmt.Errorf("%w: %q", ErrUnknownDestination, conf.Destination)
		}
		plan.Destination = cand.Decl.Qualified
		plan.DestinationFile = cand.Decl.File
	}
	plan.Members = moved

	if s.History != nil {
		s.History.Add(plan.Destination, sourceDoc)
	}
	s.state = Completed
	return plan, nil
}

// checkedMembers resolves the moved set in declaration order. A nil
// override keeps the seeded checked rows; a non-nil override replaces
// them and must name eligible members only.
func checkedMembers(eligible []model.Member, selections []model.MemberSelection, override []string) ([]model.Member, error) {
	want := make(map[string]struct{})
	if override == nil {
		for _, sel := range selections {
			if sel.Checked {
				want[sel.Member.Name] = struct{}{}
			}
		}
	} else {
		known := make(map[string]struct{}, len(eligible))
		for _, m := range eligible {
			known[m.Name] = struct{}{}
		}
		for _, name := range override {
			if _, ok := known[name]; !ok {
				return nil, fmt.Errorf("%w: %q", ErrUnknownMember, name)
			}
			want[name] = struct{}{}
		}
	}

	var moved []model.Member
	for _, m := range eligible {
		if _, ok := want[m.Name]; ok {
			moved = append(moved, m)
		}
	}
	return moved, nil
}

// qualifyName scopes a bare new-type name into the source namespace.
// Names the user already qualified pass through unchanged.
func qualifyName(name, namespace string, l *lang.Language) string {
	if strings.Contains(name, l.NamespaceSep) {
		return name
	}
	return l.JoinNamespace(namespace, name)
}

// matchCandidate finds the destination the user picked: qualified name
// first, then bare name, first hit in candidate order.
func matchCandidate(cands []model.TypeNameCandidate, name string) (model.TypeNameCandidate, bool) {
	if name == "" {
		return model.TypeNameCandidate{}, false
	}
	for _, c := range cands {
		if c.Decl.Qualified == name {
			return c, true
		}
	}
	for _, c := range cands {
		if c.Decl.Name == name {
			return c, true
		}
	}
	return model.TypeNameCandidate{}, false
}
