// Package framework reports which framework packages are installed in a
// project's node_modules. Lookups never fail the caller: a missing or broken
// manifest is logged and reported as absent.
package framework

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/yosuke-furukawa/json5/encoding/json5"

	"github.com/MrJJimenez/ionctl/internal/env"
	"github.com/MrJJimenez/ionctl/internal/ui"
)

const dependencyDir = "node_modules"

var (
	ionicAngularManifest = filepath.Join("ionic-angular", "package.json")
	appScriptsManifest   = filepath.Join("@ionic", "app-scripts", "package.json")
)

type packageJSON struct {
	Name    string `json:"name"`
	Version any    `json:"version"`
}

// Versions holds the optional results of every probe.
type Versions struct {
	IonicAngular    string
	HasIonicAngular bool
	AppScripts      string
	HasAppScripts   bool
}

// IonicAngularVersion returns the installed ionic-angular version.
func IonicAngularVersion(e *env.Environment) (string, bool) {
	return probe(e, ionicAngularManifest)
}

// AppScriptsVersion returns the installed @ionic/app-scripts version.
func AppScriptsVersion(e *env.Environment) (string, bool) {
	return probe(e, appScriptsManifest)
}

// Detect runs every probe independently.
func Detect(e *env.Environment) Versions {
	var v Versions
	v.IonicAngular, v.HasIonicAngular = IonicAngularVersion(e)
	v.AppScripts, v.HasAppScripts = AppScriptsVersion(e)
	return v
}

// ManifestPath resolves rel under the project's dependency directory.
func ManifestPath(projectDir, rel string) string {
	path, err := filepath.Abs(filepath.Join(projectDir, dependencyDir, rel))
	if err != nil {
		return filepath.Join(projectDir, dependencyDir, rel)
	}
	return path
}

func probe(e *env.Environment, rel string) (string, bool) {
	dir := e.Meta.Cwd
	if e.Project != nil && e.Project.Directory != "" {
		dir = e.Project.Directory
	}
	path := ManifestPath(dir, rel)

	pkg, err := readPackageJSON(path)
	if err != nil {
		e.Log.Errorf("Error with %s file: %v", e.Log.Bold(ui.PrettyPath(path)), err)
		return "", false
	}
	return formatVersion(pkg.Version), true
}

// formatVersion renders whatever the manifest holds under "version".
func formatVersion(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func readPackageJSON(path string) (packageJSON, error) {
	var pkg packageJSON
	data, err := os.ReadFile(path)
	if err != nil {
		return pkg, err
	}
	if err := json5.Unmarshal(data, &pkg); err != nil {
		return pkg, err
	}
	return pkg, nil
}
