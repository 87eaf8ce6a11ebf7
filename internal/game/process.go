package game

import "errors"

var ErrClientNotRunning = errors.New("client is not running")

// Window manages the client and game processes and their windows.
type Window interface {
	IsRunning(executablePath string) bool
	// Focus brings the first window titled windowTitle to the foreground. When
	// expectedExecutable is not empty the owning process must match it.
	Focus(windowTitle, expectedExecutable string) error
	Restart(executablePath string) error
	WindowLocator
}

// Executables holds the absolute paths of the processes the bot drives.
type Executables struct {
	Client   string
	ClientUx string
	Game     string
}

const (
	ClientWindowTitle = "League of Legends"
	GameWindowTitle   = "League of Legends (TM) Client"
)

const (
	clientExecutable   = `LeagueClient.exe`
	clientUxExecutable = `LeagueClientUx.exe`
	gameExecutable     = `Game\League of Legends.exe`

	DefaultInstallLocation = `C:\Riot Games\League of Legends`
)

func NewExecutables(installLocation string) Executables {
	if installLocation == "" {
		installLocation = DefaultInstallLocation
	}
	join := func(rel string) string {
		if installLocation[len(installLocation)-1] == '\\' || installLocation[len(installLocation)-1] == '/' {
			return installLocation + rel
		}
		return installLocation + `\` + rel
	}

	return Executables{
		Client:   join(clientExecutable),
		ClientUx: join(clientUxExecutable),
		Game:     join(gameExecutable),
	}
}
