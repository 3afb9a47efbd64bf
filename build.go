//go:build ignore

// build.go - custetl build helper
// Usage: go run build.go [-target=TARGET] [-v]
// Targets: build, test, run, clean

package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const (
	module     = "custetl"
	executable = "pipeline"
)

var (
	rootDir string
	distDir string

	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

func init() {
	cwd, err := os.Getwd()
	if err != nil {
		panic(fmt.Sprintf("Failed to get current directory: %v", err))
	}
	rootDir = cwd
	distDir = filepath.Join(rootDir, "dist")

	if _, err := os.Stat(filepath.Join(rootDir, "go.mod")); os.IsNotExist(err) {
		panic(fmt.Sprintf("go.mod not found in %s. Run the build from the project root.", rootDir))
	}
}

func main() {
	target := flag.String("target", "build", "Build target")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	fmt.Printf("%s%s build%s\n", colorCyan, module, colorReset)
	startTime := time.Now()

	var err error
	switch *target {
	case "build":
		err = buildExecutable(*verbose)
	case "test":
		err = runTests(*verbose)
	case "run":
		err = runPipeline(*verbose)
	case "clean":
		err = clean()
	default:
		showHelp()
		os.Exit(1)
	}

	if err != nil {
		printError(err.Error())
		os.Exit(1)
	}
	printSuccess(fmt.Sprintf("Done in %s", time.Since(startTime).Round(time.Millisecond)))
}

func printInfo(msg string) {
	fmt.Printf("%s[INFO]%s %s\n", colorCyan, colorReset, msg)
}

func printSuccess(msg string) {
	fmt.Printf("%s[OK]%s %s\n", colorGreen, colorReset, msg)
}

func printError(msg string) {
	fmt.Fprintf(os.Stderr, "%s[ERROR]%s %s\n", colorRed, colorReset, msg)
}

func printWarning(msg string) {
	fmt.Printf("%s[WARN]%s %s\n", colorYellow, colorReset, msg)
}

func gitCommit() string {
	out, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(out))
}

func goCommand(verbose bool, args ...string) *exec.Cmd {
	if verbose {
		fmt.Printf("Running: go %s\n", strings.Join(args, " "))
	}
	cmd := exec.Command("go", args...)
	cmd.Dir = rootDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd
}

func buildExecutable(verbose bool) error {
	printInfo("Building pipeline...")

	if err := os.MkdirAll(distDir, 0755); err != nil {
		return fmt.Errorf("failed to create dist directory: %w", err)
	}

	ldflags := fmt.Sprintf("-s -w -X %s/pkg/contracts.BuildTime=%s -X %s/pkg/contracts.GitCommit=%s",
		module, time.Now().Format(time.RFC3339), module, gitCommit())

	outputPath := filepath.Join(distDir, executable)
	args := []string{"build", "-ldflags", ldflags, "-o", outputPath, "./cmd/" + executable}
	if verbose {
		args = append([]string{"build", "-v"}, args[1:]...)
	}

	if err := goCommand(verbose, args...).Run(); err != nil {
		return fmt.Errorf("failed to build %s: %w", executable, err)
	}

	if info, err := os.Stat(outputPath); err == nil {
		printSuccess(fmt.Sprintf("Built %s (%.1f MB)", outputPath, float64(info.Size())/1024/1024))
	}
	return nil
}

func runTests(verbose bool) error {
	printInfo("Running Go tests...")
	args := []string{"test", "-race"}
	if verbose {
		args = append(args, "-v")
	}
	args = append(args, "./...")

	if err := goCommand(verbose, args...).Run(); err != nil {
		return fmt.Errorf("go tests failed: %w", err)
	}
	return nil
}

func runPipeline(verbose bool) error {
	printInfo("Running pipeline against the project root...")
	if err := goCommand(verbose, "run", "./cmd/"+executable, "-root", rootDir).Run(); err != nil {
		return fmt.Errorf("pipeline run failed: %w", err)
	}
	return nil
}

func clean() error {
	printInfo("Cleaning build artifacts and logs...")

	for _, dir := range []string{distDir, filepath.Join(rootDir, "logs")} {
		if err := os.RemoveAll(dir); err != nil && !os.IsNotExist(err) {
			printWarning(fmt.Sprintf("Failed to clean %s: %v", dir, err))
		}
	}
	return nil
}

func showHelp() {
	fmt.Println(`Usage: go run build.go [-target=TARGET] [-v]

Targets:
  build   Build dist/pipeline with version info
  test    Run all Go tests with the race detector
  run     Run the pipeline against this project root
  clean   Remove dist/ and logs/`)
}
