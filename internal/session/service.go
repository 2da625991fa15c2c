package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/logger"
	"github.com/spigell/talentscout/internal/screening"
)

// Service loads a session, runs the turn and saves the result. Turns of the
// same session never overlap.
type Service struct {
	store      Store
	controller *screening.Controller
	logger     *zap.Logger
	locks      *keyedMutex
	newID      func() string
	now        func() time.Time
}

func NewService(store Store, controller *screening.Controller, log *zap.Logger) *Service {
	return &Service{
		store:      store,
		controller: controller,
		logger:     logger.WithFields(log),
		locks:      newKeyedMutex(),
		newID:      uuid.NewString,
		now:        time.Now,
	}
}

// Start creates and stores a new conversation.
func (s *Service) Start(ctx context.Context) (screening.State, error) {
	state := screening.NewState(s.newID(), s.now())
	if err := s.store.Save(ctx, state); err != nil {
		return screening.State{}, err
	}
	s.logger.Info("screening session started", logger.SessionFields(state.ID, string(state.Stage))...)
	return state, nil
}

// Handle runs one candidate message through the controller.
func (s *Service) Handle(ctx context.Context, id, input string) (screening.Reply, error) {
	return s.apply(ctx, id, func(state screening.State) (screening.State, screening.Reply) {
		return s.controller.Turn(ctx, state, input)
	})
}

// End moves the session to its terminal stage on behalf of the host.
func (s *Service) End(ctx context.Context, id string) (screening.Reply, error) {
	return s.apply(ctx, id, s.controller.End)
}

func (s *Service) Get(ctx context.Context, id string) (screening.State, error) {
	return s.store.Load(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Summary, error) {
	return s.store.List(ctx)
}

func (s *Service) apply(ctx context.Context, id string, step func(screening.State) (screening.State, screening.Reply)) (screening.Reply, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	state, err := s.store.Load(ctx, id)
	if err != nil {
		return screening.Reply{}, err
	}

	next, reply := step(state)

	// The turn already happened; persist it even if the caller went away.
	if err := s.store.Save(context.WithoutCancel(ctx), next); err != nil {
		return screening.Reply{}, fmt.Errorf("persist turn: %w", err)
	}

	if next.Stage != state.Stage {
		s.logger.Info("stage changed",
			zap.String(logger.FieldSession, id),
			zap.String("from", string(state.Stage)),
			zap.String("to", string(next.Stage)),
		)
	}
	return reply, nil
}

// keyedMutex hands out one lock per key and forgets keys nobody holds.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refLock
}

type refLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refLock)}
}

func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &refLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
