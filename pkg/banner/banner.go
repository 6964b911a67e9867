package banner

import (
	"fmt"

	"elele/pkg/config"
)

const banner = `
███████╗██╗     ███████╗██╗     ███████╗
██╔════╝██║     ██╔════╝██║     ██╔════╝
█████╗  ██║     █████╗  ██║     █████╗
██╔══╝  ██║     ██╔══╝  ██║     ██╔══╝
███████╗███████╗███████╗███████╗███████╗
╚══════╝╚══════╝╚══════╝╚══════╝╚══════╝
        İstanbul El Ele - dayanışma panosu
`

// Print prints the startup banner with the effective configuration.
func Print(eff config.EffectiveConfigResult, version string) {
	fmt.Print(banner)
	fmt.Println("== Config =====================================================")
	fmt.Printf("Listen:   %s\n", eff.Addr)
	if eff.Config.Storage.Ephemeral {
		fmt.Println("Storage:  ephemeral (in-memory, nothing persists)")
	} else {
		fmt.Printf("DB Path:  %s\n", eff.DBPath)
	}
	if version != "" {
		fmt.Printf("Version:  %s\n", version)
	}
	fmt.Printf("Config:   %s\n", eff.Source)

	fmt.Println("\n== Endpoints ==================================================")
	fmt.Println("POST   /v1/messages          - Post a solidarity ad (JSON draft)")
	fmt.Println("GET    /v1/messages?role=&q= - Browse/filter/search the feed")
	fmt.Println("DELETE /v1/messages/{id}     - Delete an ad you posted")
	fmt.Println("GET    /v1/summary           - AI summary of the feed")
	fmt.Println("POST   /v1/chat              - Ask the assistant")

	fmt.Println("\n== Checks =====================================================")
	if eff.Config.Assist.APIKey != "" {
		fmt.Println("- Assistant: configured")
	} else {
		fmt.Println("- Assistant: no API key (summary/chat answer with fallback text)")
	}
	if eff.Config.Feed.SeedDemo {
		fmt.Println("- Demo seed: enabled (three fixture ads on an empty feed)")
	}
	if eff.Config.Retention.Enabled {
		fmt.Printf("- Retention: enabled (cron=%s, max_age=%s)\n",
			eff.Config.Retention.Cron, eff.Config.Retention.MaxAge)
	} else {
		fmt.Println("- Retention: disabled")
	}
	if eff.Config.Server.TLS.CertFile != "" && eff.Config.Server.TLS.KeyFile != "" {
		fmt.Println("- TLS: configured")
	} else {
		fmt.Println("- TLS: unconfigured")
	}
	fmt.Println()
}
