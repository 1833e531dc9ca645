package cmd

import (
	"crypto/tls"
	"errors"
	"log"
	"net/url"
	"os"

	"github.com/urfave/cli"
	"github.com/vbauerster/mpb/v8"

	"github.com/sflaunch/sflaunch/cmd/common"
	"github.com/sflaunch/sflaunch/internal/browser"
	"github.com/sflaunch/sflaunch/pkg/credman"
	"github.com/sflaunch/sflaunch/pkg/logger"
	"github.com/sflaunch/sflaunch/pkg/storelib"
)

var errMissingArgs = errors.New("missing required arguments")

// flowEnv bundles everything one command invocation needs: the flow, its
// catalog view, and the optional persisted-session store.
type flowEnv struct {
	flow     *storelib.Flow
	catalog  *storelib.Catalog
	store    *credman.SessionStore
	host     string
	log      logger.Logger
	restored bool

	progress *mpb.Progress
	bar      *mpb.Bar
}

// openFlow builds the transport and flow for a gateway URL, applying the
// identity certificate, proxy and cookie-import flags.
func openFlow(ctx *cli.Context, gatewayURL string) (*flowEnv, error) {
	lg := logger.Logger(logger.NewNopLogger())
	if verbose {
		lg = logger.NewStandardLogger(log.New(os.Stderr, "", log.LstdFlags))
	}

	var cert *tls.Certificate
	if certPath != "" {
		c, err := storelib.LoadIdentity(certPath, certPass)
		if err != nil {
			common.PrintRuntimeErr(ctx, "flow", "certificate", err)
			return nil, err
		}
		cert = c
	}

	transport, err := storelib.NewTransport(&storelib.TransportOpts{
		Certificate:        cert,
		ProxyURL:           proxyURL,
		Timeout:            DEF_TIMEOUT,
		InsecureSkipVerify: insecure,
	})
	if err != nil {
		common.PrintRuntimeErr(ctx, "flow", "transport", err)
		return nil, err
	}

	env := &flowEnv{log: lg}
	flow, err := storelib.NewFlow(transport, gatewayURL, &storelib.FlowOpts{
		AuthMethod: authMethod,
		Logger:     lg,
		OnStep: func(string) {
			if env.bar != nil {
				env.bar.Increment()
			}
		},
	})
	if err != nil {
		common.PrintRuntimeErr(ctx, "flow", "gateway-url", err)
		return nil, err
	}
	env.flow = flow
	env.catalog = storelib.NewCatalog(flow)
	env.host = flow.BaseURL().Host

	if cookiesFrom != "" {
		if err := env.seedCookies(ctx); err != nil {
			return nil, err
		}
	}

	if store, err := openSessionStore(); err == nil {
		env.store = store
	} else {
		lg.Warning("session store unavailable, continuing without persistence: %s", err)
	}
	return env, nil
}

func (env *flowEnv) seedCookies(ctx *cli.Context) error {
	source := cookiesFrom
	if _, err := os.Stat(source); err != nil {
		resolved, err := browser.DefaultStorePath(source)
		if err != nil {
			common.PrintRuntimeErr(ctx, "flow", "cookies-from", err)
			return err
		}
		source = resolved
	}
	cookies, format, err := browser.Import(source, env.flow.BaseURL().Hostname())
	if err != nil {
		common.PrintRuntimeErr(ctx, "flow", "cookies-from", err)
		return err
	}
	browser.Seed(env.flow.Transport().Jar(), cookies)
	env.log.Info("seeded %d cookie(s) from %s store", len(cookies), format)
	return nil
}

// authenticate brings the flow to CatalogAuthenticated: restoring a
// persisted session when allowed, otherwise performing the full login with
// a step progress bar.
func (env *flowEnv) authenticate(ctx *cli.Context, username, password string, allowRestore bool) error {
	if allowRestore && env.store != nil {
		if rec, err := env.store.Load(env.host); err == nil {
			env.flow.Restore(rec.DeviceID, rec.CSRFToken, rec.GatewayCookie, rec.CatalogCookie)
			env.restored = true
			return nil
		}
	}

	if !verbose {
		env.progress = mpb.New(mpb.WithWidth(40))
		env.bar = common.InitFlowBar(env.progress, storelib.FlowStepCount)
	}
	err := env.flow.Run(username, password)
	if env.progress != nil {
		env.bar.SetTotal(storelib.FlowStepCount, true)
		env.progress.Wait()
		env.bar = nil
	}
	if err != nil {
		common.PrintRuntimeErr(ctx, "flow", "sign-in", err)
		return err
	}
	env.persistSession()
	return nil
}

func (env *flowEnv) persistSession() {
	if env.store == nil {
		return
	}
	session := env.flow.Session()
	jar := env.flow.Transport().Jar()
	err := env.store.Save(credman.SessionRecord{
		Host:          env.host,
		DeviceID:      session.DeviceID,
		CSRFToken:     session.CSRFToken,
		GatewayCookie: jar.Value(storelib.GATEWAY_SESSION_COOKIE),
		CatalogCookie: jar.Value(storelib.CATALOG_SESSION_COOKIE),
	})
	if err != nil {
		env.log.Warning("failed to persist session: %s", err)
	}
}

func (env *flowEnv) forgetSession() {
	if env.store == nil {
		return
	}
	if err := env.store.Delete(env.host); err != nil {
		env.log.Warning("failed to drop persisted session: %s", err)
	}
}

// staleRestore reports whether err means a restored session was rejected
// server-side and a full login should be retried.
func (env *flowEnv) staleRestore(err error) bool {
	return err != nil && env.restored &&
		storelib.OutcomeOf(err) == storelib.OutcomeUnauthorized
}

// authedEnv opens a flow and brings it to CatalogAuthenticated.
func authedEnv(ctx *cli.Context, gatewayURL, username, password string, allowRestore bool) (*flowEnv, error) {
	env, err := openFlow(ctx, gatewayURL)
	if err != nil {
		return nil, err
	}
	if err := env.authenticate(ctx, username, password, allowRestore); err != nil {
		return nil, err
	}
	return env, nil
}

func hostOf(gatewayURL string) string {
	u, err := url.Parse(gatewayURL)
	if err != nil || u.Host == "" {
		return gatewayURL
	}
	return u.Host
}
