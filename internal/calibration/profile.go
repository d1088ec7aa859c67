// Package calibration provides hardware-adaptive defaults for the sampler's
// worker pool and m-sweep width. This file implements calibration profile
// persistence as YAML, keyed on hardware identity and a (workers, m_span)
// pair.
package calibration

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	yaml "go.yaml.in/yaml/v2"
)

// ProfileVersion is bumped whenever the CalibrationProfile schema changes in
// a way that makes an older on-disk profile unsafe to trust verbatim.
const ProfileVersion = 1

// DefaultProfileFilename is the basename used when no explicit path is given.
const DefaultProfileFilename = ".grfc_calibration.yaml"

// CalibrationProfile captures one machine's measured (or heuristically
// estimated) optimal sampler parameters, persisted to disk so repeated runs
// skip the benchmark pass.
type CalibrationProfile struct {
	ProfileVersion int    `yaml:"profile_version"`
	CPUModel       string `yaml:"cpu_model,omitempty"`
	NumCPU         int    `yaml:"num_cpu"`
	GOARCH         string `yaml:"goarch"`
	GOOS           string `yaml:"goos"`
	GoVersion      string `yaml:"go_version"`

	// OptimalWorkers is the inner m-sweep worker pool size found (or
	// estimated) to give the best throughput on this machine.
	OptimalWorkers int `yaml:"optimal_workers"`
	// OptimalMSpan is the inner sweep half-width found (or estimated) to
	// give the best throughput on this machine.
	OptimalMSpan int `yaml:"optimal_m_span"`

	// Measured is true when OptimalWorkers/OptimalMSpan came from an actual
	// benchmark pass (RunCalibration) rather than EstimatedSamplerParams.
	Measured bool `yaml:"measured"`

	CalibratedAt    time.Time     `yaml:"calibrated_at"`
	CalibrationTime time.Duration `yaml:"calibration_time"`
}

// getCPUModel returns a coarse hardware identifier used to invalidate a
// cached profile when it no longer matches the running machine.
func getCPUModel() string {
	return fmt.Sprintf("%s-%d-cores", runtime.GOARCH, runtime.NumCPU())
}

// NewEstimatedProfile builds a CalibrationProfile from the CPU-count
// heuristics in adaptive.go, without running any benchmark.
func NewEstimatedProfile() CalibrationProfile {
	workers, mSpan := EstimatedSamplerParams()
	return CalibrationProfile{
		ProfileVersion: ProfileVersion,
		CPUModel:       getCPUModel(),
		NumCPU:         runtime.NumCPU(),
		GOARCH:         runtime.GOARCH,
		GOOS:           runtime.GOOS,
		GoVersion:      runtime.Version(),
		OptimalWorkers: workers,
		OptimalMSpan:   mSpan,
		Measured:       false,
		CalibratedAt:   time.Now(),
	}
}

// IsValid reports whether p looks like a usable profile: right schema
// version, sane worker/m-span values, and built for this architecture.
func (p *CalibrationProfile) IsValid() bool {
	if p == nil {
		return false
	}
	if p.ProfileVersion != ProfileVersion {
		return false
	}
	if p.OptimalWorkers < 1 || p.OptimalMSpan < 0 {
		return false
	}
	if p.GOARCH != runtime.GOARCH || p.GOOS != runtime.GOOS {
		return false
	}
	return true
}

// IsStale reports whether the profile was calibrated on a machine with a
// different CPU count than the one running now, or is older than maxAge (a
// maxAge of 0 disables the age check).
func (p *CalibrationProfile) IsStale(maxAge time.Duration) bool {
	if p == nil {
		return true
	}
	if p.NumCPU != runtime.NumCPU() {
		return true
	}
	if maxAge > 0 && time.Since(p.CalibratedAt) > maxAge {
		return true
	}
	return false
}

// String renders a human-readable summary of the profile.
func (p *CalibrationProfile) String() string {
	if p == nil {
		return "<nil profile>"
	}
	kind := "estimated"
	if p.Measured {
		kind = "measured"
	}
	return fmt.Sprintf(
		"CalibrationProfile{%s, CPU: %s, Workers: %d, MSpan: %d, Calibrated: %s}",
		kind, p.CPUModel, p.OptimalWorkers, p.OptimalMSpan,
		p.CalibratedAt.Format(time.RFC3339),
	)
}

// DefaultProfilePath returns the default on-disk location for the
// calibration profile: $HOME/.grfc_calibration.yaml.
func DefaultProfilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultProfileFilename
	}
	return filepath.Join(home, DefaultProfileFilename)
}

func resolvePath(path string) string {
	if path == "" {
		return DefaultProfilePath()
	}
	return path
}

// LoadProfile loads a calibration profile from the specified path (or the
// default path if empty).
func LoadProfile(path string) (*CalibrationProfile, error) {
	path = resolvePath(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var profile CalibrationProfile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}

	return &profile, nil
}

// SaveProfile saves the calibration profile to the specified path (or the
// default path if empty).
func (p *CalibrationProfile) SaveProfile(path string) error {
	path = resolvePath(path)

	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil && !os.IsExist(err) {
		return fmt.Errorf("failed to create profile directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}

	return nil
}

// LoadOrCreateProfile loads an existing profile or returns a heuristic
// estimate if not found or incompatible with current hardware. The bool
// result reports whether an on-disk profile was successfully loaded.
func LoadOrCreateProfile(path string) (CalibrationProfile, bool) {
	profile, err := LoadProfile(path)
	if err != nil {
		return NewEstimatedProfile(), false
	}
	if !profile.IsValid() {
		return NewEstimatedProfile(), false
	}
	return *profile, true
}

// ProfileExists checks if a calibration profile exists at the given path (or
// the default path if empty).
func ProfileExists(path string) bool {
	_, err := os.Stat(resolvePath(path))
	return err == nil
}
