package usecase_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/restorehq/control-plane/internal/domain"
	domainmocks "github.com/restorehq/control-plane/internal/domain/mocks"
	"github.com/restorehq/control-plane/internal/usecase"
)

func testJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 16), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode test jpeg: %v", err)
	}
	return buf.Bytes()
}

func newAdmissionService(t *testing.T) (*usecase.AdmissionService, *domainmocks.JobRepository, *domainmocks.BlobStore, *domainmocks.Moderator, *domainmocks.Queue, *domainmocks.CreditLedger, *domainmocks.LedgerRepository, *domainmocks.IdempotencyStore) {
	t.Helper()
	jobs := domainmocks.NewJobRepository()
	blob := domainmocks.NewBlobStore()
	moderator := domainmocks.NewModerator()
	queue := domainmocks.NewQueue()
	credits := domainmocks.NewCreditLedger()
	ledger := domainmocks.NewLedgerRepository()
	idempotency := domainmocks.NewIdempotencyStore()

	svc := &usecase.AdmissionService{
		Jobs:           jobs,
		Blob:           blob,
		Moderator:      moderator,
		Queue:          queue,
		Credits:        credits,
		Ledger:         ledger,
		Idempotency:    idempotency,
		IdempotencyTTL: time.Hour,
		CreditsPerJob:  1,
	}
	return svc, jobs, blob, moderator, queue, credits, ledger, idempotency
}

func TestAdmissionService_Submit_Success(t *testing.T) {
	svc, jobs, _, moderator, queue, credits, ledger, idempotency := newAdmissionService(t)

	idempotency.EXPECT().Get(mock.Anything, "owner-1", mock.Anything).
		Return(domain.IdempotencyEntry{}, false, nil)
	moderator.EXPECT().Moderate(mock.Anything, mock.Anything, mock.Anything).
		Return(domain.ModerationVerdict{Allowed: true}, nil)
	credits.EXPECT().CheckAndDeduct(mock.Anything, "owner-1", int64(1), mock.Anything).
		Return(true, domain.CreditFree, int64(2), nil)
	jobs.EXPECT().Create(mock.Anything, mock.Anything).
		Call.Return(func(_ domain.Context, j domain.Job) string { return j.ID }, nil)
	queue.EXPECT().Enqueue(mock.Anything, mock.Anything).
		Return("task-1", nil)
	ledger.EXPECT().Append(mock.Anything, mock.Anything).Return(nil)
	idempotency.EXPECT().PutWithTTL(mock.Anything, "owner-1", mock.Anything, mock.Anything, time.Hour).
		Return(nil)

	result, err := svc.Submit(context.Background(), usecase.SubmitRequest{
		OwnerID:        "owner-1",
		IdempotencyKey: "0123456789abcdef0123456789abcdef",
		Method:         "POST",
		Path:           "/jobs",
		Prompt:         "restore this photo",
		InlineImage:    testJPEG(t),
		ObjectName:     "pre-uploaded.jpg",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, result.JobID)
	assert.Equal(t, domain.JobQueued, result.Status)
	assert.Equal(t, domain.CreditFree, result.Credit.Kind)
}

func TestAdmissionService_Submit_MissingIdempotencyKey(t *testing.T) {
	svc, _, _, _, _, _, _, _ := newAdmissionService(t)

	_, err := svc.Submit(context.Background(), usecase.SubmitRequest{
		OwnerID: "owner-1",
	})

	assert.ErrorIs(t, err, domain.ErrIdempotencyKeyMissing)
}

func TestAdmissionService_Submit_InvalidIdempotencyKey(t *testing.T) {
	svc, _, _, _, _, _, _, _ := newAdmissionService(t)

	_, err := svc.Submit(context.Background(), usecase.SubmitRequest{
		OwnerID:        "owner-1",
		IdempotencyKey: "not-a-valid-key",
		InlineImage:    testJPEG(t),
	})

	assert.ErrorIs(t, err, domain.ErrIdempotencyKeyInvalid)
}

func TestAdmissionService_Submit_ModerationRejected(t *testing.T) {
	svc, _, _, moderator, _, _, _, idempotency := newAdmissionService(t)

	idempotency.EXPECT().Get(mock.Anything, "owner-1", mock.Anything).
		Return(domain.IdempotencyEntry{}, false, nil)
	moderator.EXPECT().Moderate(mock.Anything, mock.Anything, mock.Anything).
		Return(domain.ModerationVerdict{Allowed: false, Rejection: "explicit_content"}, nil)

	_, err := svc.Submit(context.Background(), usecase.SubmitRequest{
		OwnerID:        "owner-1",
		IdempotencyKey: "0123456789abcdef0123456789abcdef",
		InlineImage:    testJPEG(t),
	})

	assert.ErrorIs(t, err, domain.ErrModerationRejected)
}

func TestAdmissionService_Submit_InsufficientCredits(t *testing.T) {
	svc, _, _, moderator, _, credits, _, idempotency := newAdmissionService(t)

	idempotency.EXPECT().Get(mock.Anything, "owner-1", mock.Anything).
		Return(domain.IdempotencyEntry{}, false, nil)
	moderator.EXPECT().Moderate(mock.Anything, mock.Anything, mock.Anything).
		Return(domain.ModerationVerdict{Allowed: true}, nil)
	credits.EXPECT().CheckAndDeduct(mock.Anything, "owner-1", int64(1), mock.Anything).
		Return(false, domain.CreditKind(""), int64(0), nil)

	_, err := svc.Submit(context.Background(), usecase.SubmitRequest{
		OwnerID:        "owner-1",
		IdempotencyKey: "0123456789abcdef0123456789abcdef",
		InlineImage:    testJPEG(t),
	})

	assert.ErrorIs(t, err, domain.ErrInsufficientCredits)
}

func TestAdmissionService_IssueUploadTarget_RejectsUnsupportedMIME(t *testing.T) {
	svc, _, _, _, _, _, _, _ := newAdmissionService(t)

	_, err := svc.IssueUploadTarget(context.Background(), "owner-1", "application/pdf")

	assert.ErrorIs(t, err, domain.ErrUnsupportedMedia)
}

func TestAdmissionService_IssueUploadTarget_Success(t *testing.T) {
	svc, _, blob, _, _, _, _, _ := newAdmissionService(t)

	blob.EXPECT().IssueUploadURL(mock.Anything, "owner-1", "image/png").
		Return("https://blob.example/upload", "obj-1.png", time.Now().Add(10*time.Minute), nil)

	target, err := svc.IssueUploadTarget(context.Background(), "owner-1", "image/png")

	assert.NoError(t, err)
	assert.Equal(t, "obj-1.png", target.ObjectName)
}
