package twofa

import (
	"time"

	"github.com/ARUMANDESU/validation"
	"github.com/ARUMANDESU/validation/is"

	"gitlab.com/nestpass/twofa-backend/internal/domain/event"
	"gitlab.com/nestpass/twofa-backend/pkg/errorx"
	"gitlab.com/nestpass/twofa-backend/pkg/randcode"
)

const (
	CodeLength     = 6
	DefaultRetries = 5

	TTL = 180 * time.Second
)

// Record is a short-lived verification code issued for a single user.
// It lives in the store for at most TTL and carries the number of
// verification attempts left.
type Record struct {
	event.Recorder
	userID     string
	email      string
	code       string
	retries    int8
	userStatus string
	issuedAt   time.Time
}

type NewRecordArgs struct {
	UserID     string
	Email      string
	UserStatus string
}

func NewRecord(args NewRecordArgs) (*Record, error) {
	const op = "twofa.NewRecord"
	err := validation.ValidateStruct(&args,
		validation.Field(&args.UserID, validation.Required),
		validation.Field(&args.Email, validation.Required, is.EmailFormat),
	)
	if err != nil {
		return nil, errorx.Wrap(err, op)
	}

	code, err := randcode.GenerateNumericCode(CodeLength)
	if err != nil {
		return nil, errorx.Wrap(err, op)
	}

	rec := &Record{
		userID:     args.UserID,
		email:      args.Email,
		code:       code,
		retries:    DefaultRetries,
		userStatus: args.UserStatus,
		issuedAt:   time.Now().UTC(),
	}

	rec.AddEvent(&CodeIssued{
		Header:     event.NewEventHeader(),
		UserID:     rec.userID,
		Email:      rec.email,
		UserStatus: rec.userStatus,
	})

	return rec, nil
}

type RehydrateArgs struct {
	UserID     string
	Code       string
	Retries    int8
	UserStatus string
}

func Rehydrate(args RehydrateArgs) *Record {
	return &Record{
		userID:     args.UserID,
		code:       args.Code,
		retries:    args.Retries,
		userStatus: args.UserStatus,
	}
}

// Matches reports whether the presented code equals the issued one.
func (r *Record) Matches(code string) bool {
	if r == nil {
		return false
	}

	return r.code == code
}

// Decrement consumes one verification attempt. It fails once all
// attempts are spent; the caller is expected to restrict the user.
func (r *Record) Decrement() error {
	const op = "twofa.Record.Decrement"
	if r.retries <= 0 {
		return errorx.Wrap(ErrRetriesExhausted, op)
	}

	r.retries--
	return nil
}

func (r *Record) UserID() string {
	if r == nil {
		return ""
	}

	return r.userID
}

func (r *Record) Email() string {
	if r == nil {
		return ""
	}

	return r.email
}

func (r *Record) Code() string {
	if r == nil {
		return ""
	}

	return r.code
}

func (r *Record) Retries() int8 {
	if r == nil {
		return 0
	}

	return r.retries
}

func (r *Record) UserStatus() string {
	if r == nil {
		return ""
	}

	return r.userStatus
}

func (r *Record) IssuedAt() time.Time {
	if r == nil {
		return time.Time{}
	}

	return r.issuedAt
}
