package cmd

import (
	"github.com/urfave/cli"

	"github.com/sflaunch/sflaunch/pkg/storelib"
)

var (
	authMethod  string
	proxyURL    string
	certPath    string
	certPass    string
	cookiesFrom string
	outputPath  string
	noLaunch    bool
	fresh       bool
	insecure    bool
	verbose     bool
)

var flowFlags = []cli.Flag{
	cli.StringFlag{
		Name:        "auth-method, m",
		Usage:       "authentication method expected from the catalog",
		EnvVar:      "SFLAUNCH_AUTH_METHOD",
		Value:       storelib.DEF_AUTH_METHOD,
		Destination: &authMethod,
	},
	cli.StringFlag{
		Name:        "proxy, x",
		Usage:       "route all requests through an http, https or socks5 proxy",
		EnvVar:      "SFLAUNCH_PROXY",
		Destination: &proxyURL,
	},
	cli.StringFlag{
		Name:        "cert, c",
		Usage:       "client identity certificate (PEM with key, or .pfx/.p12)",
		EnvVar:      "SFLAUNCH_CERT",
		Destination: &certPath,
	},
	cli.StringFlag{
		Name:        "cert-pass",
		Usage:       "password for a PKCS#12 certificate",
		EnvVar:      "SFLAUNCH_CERT_PASS",
		Destination: &certPass,
	},
	cli.StringFlag{
		Name:        "cookies-from",
		Usage:       "seed cookies from a browser (chrome, chromium, firefox) or a cookie file",
		Destination: &cookiesFrom,
	},
	cli.BoolFlag{
		Name:        "fresh, f",
		Usage:       "ignore any persisted session and perform a full login",
		Destination: &fresh,
	},
	cli.BoolFlag{
		Name:        "insecure, k",
		Usage:       "skip server certificate verification",
		Destination: &insecure,
	},
	cli.BoolFlag{
		Name:        "verbose, d",
		Usage:       "log every protocol step instead of showing a progress bar",
		Destination: &verbose,
	},
}

var launchFlags = append([]cli.Flag{
	cli.StringFlag{
		Name:        "output, o",
		Usage:       "write the session descriptor to this path instead of a temp file",
		Destination: &outputPath,
	},
	cli.BoolFlag{
		Name:        "no-launch, n",
		Usage:       "fetch and write the descriptor but do not start the native client",
		Destination: &noLaunch,
	},
}, flowFlags...)
