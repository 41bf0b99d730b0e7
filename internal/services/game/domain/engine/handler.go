package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/louisbranch/brinkmanship/internal/platform/errors"
	"github.com/louisbranch/brinkmanship/internal/platform/id"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/aggregate"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/command"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/event"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/notification"
)

const tracerName = "github.com/louisbranch/brinkmanship/internal/services/game/domain/engine"

var (
	// ErrCommandRegistryRequired indicates a missing command registry.
	ErrCommandRegistryRequired = errors.New("command registry is required")
	// ErrEventRegistryRequired indicates a missing event registry.
	ErrEventRegistryRequired = errors.New("event registry is required")
)

// EventJournal persists the events of one decision atomically and returns
// them with sequence numbers and hashes assigned.
type EventJournal interface {
	AppendEvents(ctx context.Context, events []event.Event) ([]event.Event, error)
}

// Handler validates, gates, decides and commits commands for one game.
type Handler struct {
	Registries Registries
	// Journal is optional; without one the handler keeps state in memory.
	Journal EventJournal
	Gate    DecisionGate
	// Notifications renders messages for accepted events.
	Notifications notification.Builder
	Now           func() time.Time
	NewID         func() (string, error)
	Tracer        trace.Tracer

	mu     sync.Mutex
	folder *aggregate.Folder
	state  aggregate.State
}

// Result captures execution outcomes.
type Result struct {
	Decision      command.Decision
	Notifications []notification.Payload
}

// NewHandler returns a handler over state, typically rebuilt by replay.
func NewHandler(registries Registries, state aggregate.State) (*Handler, error) {
	if registries.Commands == nil {
		return nil, ErrCommandRegistryRequired
	}
	if registries.Events == nil {
		return nil, ErrEventRegistryRequired
	}
	return &Handler{
		Registries: registries,
		folder:     &aggregate.Folder{Events: registries.Events},
		state:      state.Clone(),
	}, nil
}

// State returns a copy of the authoritative state.
func (h *Handler) State() aggregate.State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state.Clone()
}

// Execute handles one command. Rejections are returned in the decision with
// state untouched. A fold failure is an invariant violation: the command is
// aborted and nothing is journaled.
func (h *Handler) Execute(ctx context.Context, cmd command.Command) (Result, error) {
	tracer := h.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	ctx, span := tracer.Start(ctx, "engine.Execute", trace.WithAttributes(
		attribute.String("command.type", string(cmd.Type)),
		attribute.String("game.id", cmd.GameID),
	))
	defer span.End()

	result, err := h.execute(ctx, cmd)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Result{}, err
	}
	span.SetAttributes(
		attribute.Bool("command.rejected", result.Decision.Rejected()),
		attribute.Int("events.count", len(result.Decision.Events)),
	)
	return result, nil
}

func (h *Handler) execute(ctx context.Context, cmd command.Command) (Result, error) {
	if h.Registries.Commands == nil {
		return Result{}, ErrCommandRegistryRequired
	}
	if strings.TrimSpace(cmd.RequestID) == "" {
		newID := h.NewID
		if newID == nil {
			newID = id.NewID
		}
		requestID, err := newID()
		if err != nil {
			return Result{}, fmt.Errorf("generate request id: %w", err)
		}
		cmd.RequestID = requestID
	}
	validated, err := h.Registries.Commands.ValidateForDecision(cmd)
	if err != nil {
		return Result{}, apperrors.Wrap(apperrors.CodeCommandInvalid, "validate "+string(cmd.Type), err)
	}
	cmd = validated
	definition, _ := h.Registries.Commands.Definition(cmd.Type)

	clock := h.Now
	if clock == nil {
		clock = time.Now
	}
	// Journals keep millisecond timestamps; fold the same precision.
	now := func() time.Time { return clock().UTC().Truncate(time.Millisecond) }

	h.mu.Lock()
	defer h.mu.Unlock()

	if gated := h.Gate.Check(h.state.Game, definition, cmd); gated.Rejected() {
		return Result{Decision: gated}, nil
	}
	decision := decide(h.state, definition.Owner, cmd, now)
	if decision.Rejected() || len(decision.Events) == 0 {
		return Result{Decision: decision}, nil
	}
	decision.Events = append(decision.Events, consequences(h.state, cmd, decision.Events, now().UTC())...)

	for i, evt := range decision.Events {
		vetted, err := h.Registries.Events.ValidateForAppend(evt)
		if err != nil {
			return Result{}, wrapNonRetryable(apperrors.Wrap(apperrors.CodeInvariantViolation, "validate "+string(evt.Type), err))
		}
		decision.Events[i] = vetted
	}

	folder := h.folder
	if folder == nil {
		folder = &aggregate.Folder{Events: h.Registries.Events}
		h.folder = folder
	}
	next, err := folder.Apply(h.state.Clone(), decision.Events...)
	if err != nil {
		return Result{}, wrapNonRetryable(apperrors.Wrap(apperrors.CodeInvariantViolation, "fold "+string(cmd.Type), err))
	}

	if h.Journal != nil {
		stored, err := h.Journal.AppendEvents(ctx, decision.Events)
		if err != nil {
			return Result{}, err
		}
		decision.Events = stored
	}
	h.state = next

	return Result{
		Decision:      decision,
		Notifications: h.Notifications.Build(next.View(), decision.Events),
	}, nil
}
