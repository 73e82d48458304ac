package version

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/pterm/pterm"
)

// Valores padrão (sobrescritos por ldflags ou por build info)
var Version = "0.0.0-dev"
var Commit = ""
var BuildTime = ""

// LatestReleaseURL é consultado por CheckLatestVersion.
var LatestReleaseURL = "https://api.github.com/repos/diillson/carbon-footprint-go/releases/latest"

// populateFromBuildInfo preenche Version/Commit/BuildTime a partir das
// informações de VCS embutidas pelo Go, sem sobrescrever valores de ldflags.
func populateFromBuildInfo() {
	if Version != "" && Version != "0.0.0-dev" {
		return
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok || bi == nil {
		return
	}

	settings := make(map[string]string, len(bi.Settings))
	for _, s := range bi.Settings {
		settings[s.Key] = s.Value
	}

	if Commit == "" {
		if rev := settings["vcs.revision"]; len(rev) >= 7 {
			Commit = rev[:7]
		}
	}

	if BuildTime == "" {
		if ts, err := time.Parse(time.RFC3339, settings["vcs.time"]); err == nil {
			BuildTime = ts.UTC().Format("2006-01-02T15:04:05Z")
		}
	}

	// Módulos instalados via go install trazem a versão no Main.
	if v := bi.Main.Version; v != "" && v != "(devel)" {
		Version = Normalize(v)
	}
	if strings.EqualFold(settings["vcs.modified"], "true") && !strings.HasSuffix(Version, "-dirty") && Version != "0.0.0-dev" {
		Version += "-dirty"
	}
}

func init() {
	populateFromBuildInfo()
}

// Normalize returns v as a canonical semantic version without the "v"
// prefix. Strings that are not semantic versions are returned trimmed.
func Normalize(v string) string {
	v = strings.TrimSpace(v)
	parsed, err := semver.NewVersion(v)
	if err != nil {
		return strings.TrimPrefix(v, "v")
	}
	return parsed.String()
}

// IsNewer reports whether latest is a higher semantic version than current.
// Unparseable versions never count as newer.
func IsNewer(current, latest string) bool {
	cur, err := semver.NewVersion(current)
	if err != nil {
		return false
	}
	lat, err := semver.NewVersion(latest)
	if err != nil {
		return false
	}
	return lat.GreaterThan(cur)
}

// LatestVersion consulta a última release publicada.
func LatestVersion(ctx context.Context, client *http.Client) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, LatestReleaseURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d from release API", resp.StatusCode)
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", err
	}
	return Normalize(release.TagName), nil
}

// CheckLatestVersion avisa quando há uma versão mais recente disponível.
func CheckLatestVersion(ctx context.Context, currentVersion string) {
	// Versões dev não são verificadas
	if strings.HasSuffix(currentVersion, "-dev") {
		return
	}

	latest, err := LatestVersion(ctx, &http.Client{Timeout: 3 * time.Second})
	if err != nil {
		return
	}

	if IsNewer(currentVersion, latest) {
		pterm.Warning.Println(fmt.Sprintf("A new version of carbon-footprint is available: %s", latest))
		pterm.Info.Println("Please update using: go install github.com/diillson/carbon-footprint-go/cmd/carbon-footprint@latest")
	}
}

// FormatVersion retorna a versão formatada com commit e build time.
// Ex.: "1.2.3 (commit: abc1234, built at: 2025-10-23T10:20:30Z)"
func FormatVersion() string {
	ver := Version
	if ver == "" {
		ver = "0.0.0-dev"
	}

	commit := Commit
	if commit == "" {
		commit = "development"
	}

	if commit == "development" && BuildTime == "" {
		return fmt.Sprintf("%s (development)", ver)
	}

	if BuildTime != "" {
		return fmt.Sprintf("%s (commit: %s, built at: %s)", ver, commit, BuildTime)
	}

	return fmt.Sprintf("%s (commit: %s)", ver, commit)
}
