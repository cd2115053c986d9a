package application

import (
	"context"
	"errors"
	"testing"

	"github.com/teanus/college-schedule-bot/internal/persistence"
)

func TestBroadcastService_Broadcast(t *testing.T) {
	t.Parallel()

	t.Run("mails every roster address", func(t *testing.T) {
		t.Parallel()

		repo := &scheduleRepositoryStub{emails: []string{"a@example.ru", "b@example.ru"}}
		mailer := &mailerStub{}
		svc := NewBroadcastService(repo, mailer, nil)

		count, err := svc.Broadcast(context.Background(), "po214", "Объявление", "Занятия отменены")
		if err != nil {
			t.Fatalf("Broadcast failed: %v", err)
		}
		if count != 2 {
			t.Fatalf("expected 2 recipients, got %d", count)
		}
		if len(mailer.sent) != 1 || len(mailer.sent[0].To) != 2 {
			t.Fatalf("unexpected outbound messages %+v", mailer.sent)
		}
	})

	t.Run("skips the transport for an empty roster", func(t *testing.T) {
		t.Parallel()

		repo := &scheduleRepositoryStub{emails: []string{}}
		mailer := &mailerStub{}
		svc := NewBroadcastService(repo, mailer, nil)

		count, err := svc.Broadcast(context.Background(), "po214", "Объявление", "текст")
		if err != nil {
			t.Fatalf("Broadcast failed: %v", err)
		}
		if count != 0 {
			t.Fatalf("expected zero recipients, got %d", count)
		}
		if len(mailer.sent) != 0 {
			t.Fatal("mail transport must not be touched for an empty roster")
		}
	})

	t.Run("maps a missing group to ErrGroupNotFound", func(t *testing.T) {
		t.Parallel()

		repo := &scheduleRepositoryStub{emailsErr: persistence.ErrNotFound}
		svc := NewBroadcastService(repo, &mailerStub{}, nil)

		_, err := svc.Broadcast(context.Background(), "ghost", "s", "b")
		if !errors.Is(err, ErrGroupNotFound) {
			t.Fatalf("expected ErrGroupNotFound, got %v", err)
		}
	})

	t.Run("wraps transport failures in ErrMailDelivery", func(t *testing.T) {
		t.Parallel()

		repo := &scheduleRepositoryStub{emails: []string{"a@example.ru"}}
		mailer := &mailerStub{sendErr: errors.New("smtp down")}
		svc := NewBroadcastService(repo, mailer, nil)

		_, err := svc.Broadcast(context.Background(), "po214", "s", "b")
		if !errors.Is(err, ErrMailDelivery) {
			t.Fatalf("expected ErrMailDelivery, got %v", err)
		}
	})
}
