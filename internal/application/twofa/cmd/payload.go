package cmd

import (
	"strings"

	"gitlab.com/nestpass/twofa-backend/pkg/errorx"
)

// IssueCode carries the caller-supplied fields for issuing a code.
// Pointer fields distinguish an absent field from an empty one.
type IssueCode struct {
	UserID     *string `json:"userId"`
	Email      *string `json:"email"`
	UserStatus *string `json:"userStatus,omitempty"`
}

type fieldRef struct {
	name  string
	value **string
}

func (c *IssueCode) requiredFields() []fieldRef {
	return []fieldRef{
		{name: "userId", value: &c.UserID},
		{name: "email", value: &c.Email},
	}
}

// Validate rejects absent fields before empty ones, reporting every
// offender of the failing kind at once.
func (c *IssueCode) Validate() error {
	const op = "cmd.IssueCode.Validate"

	var missing []string
	for _, f := range c.requiredFields() {
		if *f.value == nil {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return errorx.Wrap(errorx.NewMissingFields(strings.Join(missing, ", ")), op)
	}

	var empty []string
	for _, f := range c.requiredFields() {
		if **f.value == "" {
			empty = append(empty, f.name)
		}
	}
	if len(empty) > 0 {
		return errorx.Wrap(errorx.NewEmptyFields(strings.Join(empty, ", ")), op)
	}

	return nil
}

func (c *IssueCode) userID() string {
	if c.UserID == nil {
		return ""
	}

	return *c.UserID
}

func (c *IssueCode) email() string {
	if c.Email == nil {
		return ""
	}

	return *c.Email
}

func (c *IssueCode) userStatus() string {
	if c.UserStatus == nil {
		return ""
	}

	return *c.UserStatus
}
