package cmd

import "time"

const DEF_TIMEOUT = time.Second * 30

// ConfigDirEnv overrides the default configuration directory.
const ConfigDirEnv = "SFLAUNCH_CONFIG_DIR"

// SessionKeyEnv supplies the session-store encryption key as hex, bypassing
// the OS keyring. Meant for headless and CI use.
const SessionKeyEnv = "SFLAUNCH_SESSION_KEY"

const DESCRIPTION = `
sflaunch signs in to a remote-application gateway and the
application catalog behind it without a browser, replaying the
exact exchanges a browser would perform. It lists the published
applications and fetches session descriptors to start them with
the locally installed native client.
`

const (
	ListDescription = `The list command signs in to the gateway and prints the
applications published for the account.

Example:
        sflaunch list https://gateway.example.net user secret

`
	LaunchDescription = `The launch command signs in, fetches the session descriptor
for the named application and starts the native client with it.

Example:
        sflaunch launch https://gateway.example.net user secret "Notepad"

`
	MethodsDescription = `The methods command signs in to the gateway and prints the
authentication methods the catalog offers. Useful when the default
method is not accepted and --auth-method needs a value.

Example:
        sflaunch methods https://gateway.example.net user secret

`
	ForgetDescription = `The forget command deletes the persisted session for a gateway,
forcing the next run to perform a full login.

Example:
        sflaunch forget https://gateway.example.net

`
)
