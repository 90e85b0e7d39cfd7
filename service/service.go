package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/chatlinehq/chatline/auth"
	"github.com/chatlinehq/chatline/cockroach"
	"github.com/chatlinehq/chatline/event"
	"github.com/chatlinehq/chatline/minio"
	"github.com/chatlinehq/chatline/presence"
	"github.com/chatlinehq/chatline/pubsub"
)

type Config struct {
	Cockroach         *cockroach.Cockroach
	Minio             *minio.Minio
	PubSub            pubsub.PubSub
	Presence          *presence.Tracker
	Bus               *event.Bus
	Tokens            *auth.Tokens
	Logger            *slog.Logger
	MediaBaseURL      *url.URL
	BaseCtx           context.Context
	BackgroundTimeout time.Duration
}

type Service struct {
	Cockroach *cockroach.Cockroach
	Minio     *minio.Minio
	PubSub    pubsub.PubSub
	Presence  *presence.Tracker
	Bus       *event.Bus
	Tokens    *auth.Tokens
	Logger    *slog.Logger

	mediaBaseURL      *url.URL
	baseCtx           context.Context
	backgroundTimeout time.Duration
	wg                sync.WaitGroup
	errs              chan error
}

func New(cfg *Config) *Service {
	svc := &Service{
		Cockroach: cfg.Cockroach,
		Minio:     cfg.Minio,
		PubSub:    cfg.PubSub,
		Presence:  cfg.Presence,
		Bus:       cfg.Bus,
		Tokens:    cfg.Tokens,
		Logger:    cfg.Logger,

		mediaBaseURL:      cfg.MediaBaseURL,
		baseCtx:           cfg.BaseCtx,
		backgroundTimeout: cfg.BackgroundTimeout,
		errs:              make(chan error, 1),
	}

	svc.Bus.OnFriendshipAccepted(svc.onFriendshipAccepted)

	return svc
}

func (svc *Service) Errs() <-chan error {
	return svc.errs
}

func (svc *Service) Close() error {
	svc.wg.Wait()
	close(svc.errs)
	return nil
}

func (svc *Service) background(fn func(ctx context.Context) error) {
	svc.wg.Go(func() {
		defer func() {
			if rcv := recover(); rcv != nil {
				select {
				case svc.errs <- fmt.Errorf("service background panic: %v", rcv):
				default:
				}
			}
		}()

		ctx, cancel := context.WithTimeout(svc.baseCtx, svc.backgroundTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			select {
			case svc.errs <- fmt.Errorf("service background error: %w", err):
			default:
			}
		}
	})
}
