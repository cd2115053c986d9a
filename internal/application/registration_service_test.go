package application

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/teanus/college-schedule-bot/internal/testfixtures"
)

func TestRegistrationService_RequestCode(t *testing.T) {
	t.Parallel()

	t.Run("persists the code and mails it", func(t *testing.T) {
		t.Parallel()

		codes := newCodeRepositoryStub()
		mailer := &mailerStub{}
		clock := testfixtures.NewClock(time.Time{})
		seq := testfixtures.NewCodeSequence("abc123")
		svc := NewRegistrationService(codes, mailer, seq.NextFunc(), clock.NowFunc(), 0, nil)

		code, err := svc.RequestCode(context.Background(), " Student@Example.RU ")
		if err != nil {
			t.Fatalf("RequestCode failed: %v", err)
		}
		if code != "abc123" {
			t.Fatalf("expected abc123, got %q", code)
		}

		stored, ok := codes.byEmail["student@example.ru"]
		if !ok {
			t.Fatal("expected code stored under normalized email")
		}
		if !stored.IssuedAt.Equal(clock.Now()) {
			t.Fatalf("expected issuance at %v, got %v", clock.Now(), stored.IssuedAt)
		}

		if len(mailer.sent) != 1 {
			t.Fatalf("expected one message, got %d", len(mailer.sent))
		}
		msg := mailer.sent[0]
		if len(msg.To) != 1 || msg.To[0] != "student@example.ru" {
			t.Fatalf("unexpected recipients %v", msg.To)
		}
		if !strings.Contains(msg.Body, "abc123") {
			t.Fatalf("expected code in body, got %q", msg.Body)
		}
	})

	t.Run("rejects a malformed address without issuing a code", func(t *testing.T) {
		t.Parallel()

		codes := newCodeRepositoryStub()
		mailer := &mailerStub{}
		svc := NewRegistrationService(codes, mailer, nil, nil, 0, nil)

		_, err := svc.RequestCode(context.Background(), "not-an-address")
		var vErr *ValidationError
		if !errors.As(err, &vErr) || !vErr.HasErrors() {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if len(codes.byEmail) != 0 || len(mailer.sent) != 0 {
			t.Fatal("no code may be issued for a malformed address")
		}
	})

	t.Run("keeps the stored code when delivery fails", func(t *testing.T) {
		t.Parallel()

		codes := newCodeRepositoryStub()
		mailer := &mailerStub{sendErr: errors.New("smtp down")}
		seq := testfixtures.NewCodeSequence("abc123")
		svc := NewRegistrationService(codes, mailer, seq.NextFunc(), nil, 0, nil)

		code, err := svc.RequestCode(context.Background(), "student@example.ru")
		if !errors.Is(err, ErrMailDelivery) {
			t.Fatalf("expected ErrMailDelivery, got %v", err)
		}
		if code != "abc123" {
			t.Fatalf("expected issued code returned, got %q", code)
		}
		if _, ok := codes.byEmail["student@example.ru"]; !ok {
			t.Fatal("expected code to stay stored after delivery failure")
		}
	})

	t.Run("replaces a pending code on reissue", func(t *testing.T) {
		t.Parallel()

		codes := newCodeRepositoryStub()
		seq := testfixtures.NewCodeSequence("abc123", "def456")
		svc := NewRegistrationService(codes, &mailerStub{}, seq.NextFunc(), nil, 0, nil)

		if _, err := svc.RequestCode(context.Background(), "student@example.ru"); err != nil {
			t.Fatalf("first RequestCode failed: %v", err)
		}
		if _, err := svc.RequestCode(context.Background(), "student@example.ru"); err != nil {
			t.Fatalf("second RequestCode failed: %v", err)
		}

		if got := codes.byEmail["student@example.ru"].Code; got != "def456" {
			t.Fatalf("expected latest code def456, got %q", got)
		}
	})
}

func TestRegistrationService_VerifyCode(t *testing.T) {
	t.Parallel()

	issue := func(t *testing.T, clock *testfixtures.Clock) (*RegistrationService, *codeRepositoryStub) {
		t.Helper()
		codes := newCodeRepositoryStub()
		seq := testfixtures.NewCodeSequence("abc123")
		svc := NewRegistrationService(codes, &mailerStub{}, seq.NextFunc(), clock.NowFunc(), 0, nil)
		if _, err := svc.RequestCode(context.Background(), "student@example.ru"); err != nil {
			t.Fatalf("RequestCode failed: %v", err)
		}
		return svc, codes
	}

	t.Run("accepts the code at the window boundary", func(t *testing.T) {
		t.Parallel()

		clock := testfixtures.NewClock(time.Time{})
		svc, _ := issue(t, clock)

		clock.Advance(180 * time.Second)
		ok, err := svc.VerifyCode(context.Background(), "student@example.ru", "abc123")
		if err != nil {
			t.Fatalf("VerifyCode failed: %v", err)
		}
		if !ok {
			t.Fatal("expected verification to succeed at exactly 180s")
		}
	})

	t.Run("rejects the code one second past the window", func(t *testing.T) {
		t.Parallel()

		clock := testfixtures.NewClock(time.Time{})
		svc, _ := issue(t, clock)

		clock.Advance(181 * time.Second)
		ok, err := svc.VerifyCode(context.Background(), "student@example.ru", "abc123")
		if err != nil {
			t.Fatalf("VerifyCode failed: %v", err)
		}
		if ok {
			t.Fatal("expected verification to fail at 181s")
		}
	})

	t.Run("rejects a wrong code", func(t *testing.T) {
		t.Parallel()

		clock := testfixtures.NewClock(time.Time{})
		svc, _ := issue(t, clock)

		ok, err := svc.VerifyCode(context.Background(), "student@example.ru", "zzz999")
		if err != nil {
			t.Fatalf("VerifyCode failed: %v", err)
		}
		if ok {
			t.Fatal("expected verification to fail for a wrong code")
		}
	})

	t.Run("reports false when no code is pending", func(t *testing.T) {
		t.Parallel()

		codes := newCodeRepositoryStub()
		svc := NewRegistrationService(codes, &mailerStub{}, nil, nil, 0, nil)

		ok, err := svc.VerifyCode(context.Background(), "stranger@example.ru", "abc123")
		if err != nil {
			t.Fatalf("VerifyCode failed: %v", err)
		}
		if ok {
			t.Fatal("expected verification to fail without a pending code")
		}
	})

	t.Run("consumes the code on success", func(t *testing.T) {
		t.Parallel()

		clock := testfixtures.NewClock(time.Time{})
		svc, codes := issue(t, clock)

		ok, err := svc.VerifyCode(context.Background(), "student@example.ru", "abc123")
		if err != nil || !ok {
			t.Fatalf("first verification failed: ok=%v err=%v", ok, err)
		}
		if len(codes.byEmail) != 0 {
			t.Fatal("expected code removed after successful verification")
		}

		ok, err = svc.VerifyCode(context.Background(), "student@example.ru", "abc123")
		if err != nil {
			t.Fatalf("second VerifyCode failed: %v", err)
		}
		if ok {
			t.Fatal("expected replay of a consumed code to fail")
		}
	})

	t.Run("normalizes the email and trims the submitted code", func(t *testing.T) {
		t.Parallel()

		clock := testfixtures.NewClock(time.Time{})
		svc, _ := issue(t, clock)

		ok, err := svc.VerifyCode(context.Background(), " Student@Example.RU ", " abc123 ")
		if err != nil {
			t.Fatalf("VerifyCode failed: %v", err)
		}
		if !ok {
			t.Fatal("expected verification to succeed after normalization")
		}
	})
}
