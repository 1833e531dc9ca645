package cmd

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/sflaunch/sflaunch/cmd/common"
	"github.com/sflaunch/sflaunch/internal/launcher"
	"github.com/sflaunch/sflaunch/pkg/storelib"
)

// withCatalog runs fn against an authenticated catalog. When a restored
// session turns out stale (the server answers unauthorized), the persisted
// record is dropped and the whole thing is retried once with a clean
// transport and a full login.
func withCatalog(ctx *cli.Context, gatewayURL, username, password string, fn func(*flowEnv) error) error {
	env, err := authedEnv(ctx, gatewayURL, username, password, !fresh)
	if err != nil {
		return err
	}
	err = fn(env)
	if env.staleRestore(err) {
		env.log.Warning("persisted session rejected by server, retrying with full sign-in")
		env.forgetSession()
		env, err = authedEnv(ctx, gatewayURL, username, password, false)
		if err != nil {
			return err
		}
		err = fn(env)
	}
	return err
}

func listApps(ctx *cli.Context, gatewayURL, username, password string) error {
	return withCatalog(ctx, gatewayURL, username, password, func(env *flowEnv) error {
		apps, err := env.catalog.ListApplications()
		if err != nil {
			common.PrintRuntimeErr(ctx, "list", "resource-list", err)
			return err
		}
		if len(apps) == 0 {
			fmt.Println("no published applications")
			return nil
		}
		for _, app := range apps {
			fmt.Println(app.Name)
		}
		return nil
	})
}

func launchApp(ctx *cli.Context, gatewayURL, username, password, appName string) error {
	return withCatalog(ctx, gatewayURL, username, password, func(env *flowEnv) error {
		apps, err := env.catalog.ListApplications()
		if err != nil {
			common.PrintRuntimeErr(ctx, "launch", "resource-list", err)
			return err
		}
		app, ok := storelib.AppByName(apps, appName)
		if !ok {
			err := fmt.Errorf("application %q not published for this account", appName)
			common.PrintRuntimeErr(ctx, "launch", "lookup", err)
			return err
		}
		descriptor, err := env.catalog.FetchDescriptor(app.LaunchRef)
		if err != nil {
			common.PrintRuntimeErr(ctx, "launch", "descriptor", err)
			return err
		}

		l := launcher.New(nil, env.log)
		path, err := l.WriteDescriptor(outputPath, descriptor)
		if err != nil {
			common.PrintRuntimeErr(ctx, "launch", "write-descriptor", err)
			return err
		}
		fmt.Printf("descriptor for %q written to %s\n", app.Name, path)
		if noLaunch {
			return nil
		}
		if err := l.Launch(path); err != nil {
			common.PrintRuntimeErr(ctx, "launch", "open-descriptor", err)
			return err
		}
		return nil
	})
}

func listMethods(ctx *cli.Context, gatewayURL, username, password string) error {
	env, err := openFlow(ctx, gatewayURL)
	if err != nil {
		return err
	}
	if err := env.flow.Login(username, password); err != nil {
		common.PrintRuntimeErr(ctx, "methods", "sign-in", err)
		return err
	}
	methods, err := env.flow.DiscoverAuthMethods()
	if err != nil {
		common.PrintRuntimeErr(ctx, "methods", "discovery", err)
		return err
	}
	if len(methods) == 0 {
		fmt.Println("no authentication methods offered")
		return nil
	}
	for _, m := range methods {
		fmt.Printf("%s\t%s\n", m.Name, m.URL)
	}
	return nil
}

func forget(ctx *cli.Context) error {
	target := ctx.Args().Get(0)
	if target == "" {
		return common.PrintErrWithCmdHelp(ctx, errMissingArgs)
	}
	store, err := openSessionStore()
	if err != nil {
		common.PrintRuntimeErr(ctx, "forget", "session-store", err)
		return err
	}
	host := hostOf(target)
	if err := store.Delete(host); err != nil {
		common.PrintRuntimeErr(ctx, "forget", "delete", err)
		return err
	}
	fmt.Printf("dropped persisted session for %s\n", host)
	return nil
}
