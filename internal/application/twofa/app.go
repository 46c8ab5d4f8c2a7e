package twofa

import (
	twofacmd "gitlab.com/nestpass/twofa-backend/internal/application/twofa/cmd"
	twofaevent "gitlab.com/nestpass/twofa-backend/internal/application/twofa/event"
	twofaquery "gitlab.com/nestpass/twofa-backend/internal/application/twofa/query"
)

type App struct {
	CMD   Command
	Query Query
	Event Event
}

type Command struct {
	IssueCode *twofacmd.IssueCodeHandler
}

type Query struct {
	GetCode *twofaquery.GetCodeHandler
}

type Event struct {
	CodeIssued *twofaevent.CodeIssuedHandler
}

type Args struct {
	Store       Store
	Mailsender  twofacmd.MailSender
	Publisher   twofacmd.EventPublisher
	MailEnabled bool
}

// Store is the full verification store surface the app depends on.
type Store interface {
	twofacmd.VerificationStore
	twofaquery.VerificationGetter
}

func NewApp(args Args) *App {
	return &App{
		CMD: Command{
			IssueCode: twofacmd.NewIssueCodeHandler(twofacmd.IssueCodeHandlerArgs{
				Store:       args.Store,
				Mailsender:  args.Mailsender,
				Publisher:   args.Publisher,
				MailEnabled: args.MailEnabled,
			}),
		},
		Query: Query{
			GetCode: twofaquery.NewGetCodeHandler(args.Store),
		},
		Event: Event{
			CodeIssued: twofaevent.NewCodeIssuedHandler(twofaevent.CodeIssuedHandlerArgs{}),
		},
	}
}
