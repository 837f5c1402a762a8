package main

import (
	"context"
	"fmt"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/ytget/gdsfx/internal/audio"
	"github.com/ytget/gdsfx/internal/cdn"
	"github.com/ytget/gdsfx/internal/config"
	"github.com/ytget/gdsfx/internal/download"
	"github.com/ytget/gdsfx/internal/library"
	"github.com/ytget/gdsfx/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.ytget.gdsfx"
	AppName = "GDSFX"
)

func main() {
	fmt.Printf("GDSFX v%s starting...\n", version)

	myApp := app.NewWithID(AppID)
	myApp.Settings().SetTheme(ui.NewCompactTheme())

	overrides, err := config.ResolveOverrides()
	if err != nil {
		log.Printf("ignoring config overrides: %v", err)
	}
	settings := config.NewSettings(myApp).WithOverrides(overrides)

	windowTitle := fmt.Sprintf("%s v%s", AppName, version)
	myWindow := myApp.NewWindow(windowTitle)
	myWindow.Resize(fyne.NewSize(ui.WindowWidth, ui.WindowHeight))

	// Initialize services
	client := cdn.NewClient(settings.GetCDNURL())
	downloadSvc := download.NewService(client, settings.GetGameFolder(), settings.GetMaxParallelDownloads(), nil)
	player := audio.NewPlayer(nil)
	defer player.Close()

	favorites := library.NewFavorites(settings.GetFavorites()...)
	favorites.SetUpdateCallback(settings.SetFavorites)

	rootUI := ui.NewRootUI(myWindow, settings, downloadSvc, player, favorites)
	defer rootUI.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loader := library.NewLoader(client, cacheDir(myApp), nil)
	go func() {
		lib, err := loader.Load(ctx, false)
		fyne.Do(func() {
			if err != nil {
				rootUI.SetLoadError(err)
				return
			}
			rootUI.SetLibrary(lib)
		})
	}()

	myWindow.ShowAndRun()
}

// cacheDir returns the app storage folder used for the library cache
func cacheDir(a fyne.App) string {
	root := a.Storage().RootURI()
	if root == nil {
		return ""
	}
	return root.Path()
}
