package cmd

import (
	"fmt"
	"runtime"

	"github.com/urfave/cli"

	"github.com/sflaunch/sflaunch/cmd/common"
)

// BuildArgs carries build-time version information into the CLI.
type BuildArgs struct {
	Version   string
	BuildType string
	Date      string
	Commit    string
}

// Execute runs the CLI. The root action implements the positional argument
// contract (gatewayUrl username password [appName] [certPath]
// [certPassword]); the named commands expose the same flow with flags.
func Execute(args []string, bArgs BuildArgs) error {
	common.VersionCmdStr = fmt.Sprintf("sflaunch %s-%s (%s/%s) %s %s",
		bArgs.Version, bArgs.BuildType, runtime.GOOS, runtime.GOARCH, bArgs.Date, bArgs.Commit)
	app := cli.App{
		Name:                  "sflaunch",
		HelpName:              "sflaunch",
		Usage:                 "browser-less launcher for gateway-published applications.",
		Version:               fmt.Sprintf("%s-%s", bArgs.Version, bArgs.BuildType),
		UsageText:             "sflaunch <gatewayUrl> <username> <password> [appName] [certPath] [certPassword]",
		Description:           DESCRIPTION,
		CustomAppHelpTemplate: HELP_TEMPL,
		OnUsageError:          common.UsageErrorCallback,
		Action:                run,
		Flags:                 launchFlags,
		Commands: []cli.Command{
			{
				Name:                   "list",
				Aliases:                []string{"l"},
				Usage:                  "list the applications published for the account",
				Action:                 list,
				OnUsageError:           common.UsageErrorCallback,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				Description:            ListDescription,
				UseShortOptionHandling: true,
				Flags:                  flowFlags,
			},
			{
				Name:                   "launch",
				Aliases:                []string{"r"},
				Usage:                  "start a published application with the native client",
				Action:                 launch,
				OnUsageError:           common.UsageErrorCallback,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				Description:            LaunchDescription,
				UseShortOptionHandling: true,
				Flags:                  launchFlags,
			},
			{
				Name:                   "methods",
				Usage:                  "show the authentication methods the catalog offers",
				Action:                 methods,
				OnUsageError:           common.UsageErrorCallback,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				Description:            MethodsDescription,
				UseShortOptionHandling: true,
				Flags:                  flowFlags,
			},
			{
				Name:               "forget",
				Usage:              "delete the persisted session for a gateway",
				Action:             forget,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        ForgetDescription,
			},
			{
				Name:    "help",
				Aliases: []string{"h"},
				Usage:   "prints the help message",
				Action:  common.Help,
			},
			{
				Name:               "version",
				Aliases:            []string{"v"},
				Usage:              "prints the installed version",
				UsageText:          " ",
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             common.GetVersion,
			},
		},
	}
	return app.Run(args)
}

// run is the root action: the bare positional contract. Missing required
// arguments exit silently; that is the documented interface for scripted
// callers that probe with empty values.
func run(ctx *cli.Context) error {
	args := ctx.Args()
	gatewayURL, username, password := args.Get(0), args.Get(1), args.Get(2)
	if gatewayURL == "" || username == "" || password == "" {
		return nil
	}
	if cp := args.Get(4); cp != "" {
		certPath = cp
	}
	if cp := args.Get(5); cp != "" {
		certPass = cp
	}
	appName := args.Get(3)
	if appName == "" {
		return listApps(ctx, gatewayURL, username, password)
	}
	return launchApp(ctx, gatewayURL, username, password, appName)
}

func list(ctx *cli.Context) error {
	args := ctx.Args()
	gatewayURL, username, password := args.Get(0), args.Get(1), args.Get(2)
	if gatewayURL == "" || username == "" || password == "" {
		return common.PrintErrWithCmdHelp(ctx, errMissingArgs)
	}
	return listApps(ctx, gatewayURL, username, password)
}

func launch(ctx *cli.Context) error {
	args := ctx.Args()
	gatewayURL, username, password, appName := args.Get(0), args.Get(1), args.Get(2), args.Get(3)
	if gatewayURL == "" || username == "" || password == "" || appName == "" {
		return common.PrintErrWithCmdHelp(ctx, errMissingArgs)
	}
	return launchApp(ctx, gatewayURL, username, password, appName)
}

func methods(ctx *cli.Context) error {
	args := ctx.Args()
	gatewayURL, username, password := args.Get(0), args.Get(1), args.Get(2)
	if gatewayURL == "" || username == "" || password == "" {
		return common.PrintErrWithCmdHelp(ctx, errMissingArgs)
	}
	return listMethods(ctx, gatewayURL, username, password)
}
