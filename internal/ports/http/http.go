package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	twofaapp "gitlab.com/nestpass/twofa-backend/internal/application/twofa"
	pinghttp "gitlab.com/nestpass/twofa-backend/internal/ports/http/ping"
	twofahttp "gitlab.com/nestpass/twofa-backend/internal/ports/http/twofa"
	"gitlab.com/nestpass/twofa-backend/pkg/httpx"
)

type Port struct {
	twofa *twofahttp.HTTP
	ping  *pinghttp.HTTP
}

type Args struct {
	TwoFAApp *twofaapp.App
}

func NewPort(args Args) *Port {
	errhandler := httpx.NewErrorHandler()

	return &Port{
		twofa: twofahttp.NewHTTP(twofahttp.Args{
			App:        args.TwoFAApp,
			Errhandler: errhandler,
		}),
		ping: pinghttp.NewHTTP(pinghttp.Args{
			Errhandler: errhandler,
		}),
	}
}

func (p *Port) Route(r chi.Router) chi.Router {
	if r == nil {
		r = chi.NewRouter()
	}

	p.twofa.Route(r)
	p.ping.Route(r)
	r.Method("GET", "/metrics", promhttp.Handler())

	return r
}
