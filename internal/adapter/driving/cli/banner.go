package cli

import (
	"fmt"

	"github.com/diillson/carbon-footprint-go/pkg/version"
	"github.com/fatih/color"
)

// displayWelcomeBanner exibe o banner de boas-vindas com informações de versão.
func displayWelcomeBanner() {
	banner := `
   ____           _                   _____           _              _       _
  / ___|__ _ _ __| |__   ___  _ __   |  ___|__   ___ | |_ _ __  _ __(_)_ __ | |_
 | |   / _' | '__| '_ \ / _ \| '_ \  | |_ / _ \ / _ \| __| '_ \| '__| | '_ \| __|
 | |__| (_| | |  | |_) | (_) | | | | |  _| (_) | (_) | |_| |_) | |  | | | | | |_
  \____\__,_|_|  |_.__/ \___/|_| |_| |_|  \___/ \___/ \__| .__/|_|  |_|_| |_|\__|
                                                         |_|
`
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	blue := color.New(color.FgBlue, color.Bold).SprintFunc()

	fmt.Println(green(banner))
	fmt.Println(blue(fmt.Sprintf("Carbon Footprint Calculator (v%s)", version.FormatVersion())))
}
