package core

// Job family names used by the built-in workflow.
const (
	FamilyTest         = "test"
	FamilyLint         = "lint"
	FamilyFormat       = "format"
	FamilyDocs         = "docs"
	FamilyCompileBench = "compile-bench"
)

var (
	allOS   = []string{"ubuntu-latest", "macos-latest", "windows-latest"}
	linuxOS = []string{"ubuntu-latest"}

	bothChannels = []string{"stable", "nightly"}
	nightlyOnly  = []string{"nightly"}
)

// DefaultWorkflow returns the built-in CI plan for a Rust workspace:
// pull requests on any branch, pushes to main, and a tick every two
// days at midnight fan out into five job families. Every family runs
// with fail-fast disabled so a run always reports its complete failure
// surface.
func DefaultWorkflow() *Workflow {
	osChannel := func(oses []string, channels []string) []Axis {
		return []Axis{
			{Name: "os", Values: oses},
			{Name: "channel", Values: channels},
		}
	}

	activate := Step{
		Name: "toolchain",
		Run:  "rustup toolchain install ${channel} --profile minimal && rustup default ${channel}",
	}

	return &Workflow{
		Name: "ci",
		On: TriggerRules{
			PullRequest: true,
			Push:        []string{"main"},
			Schedule:    "0 0 */2 * *",
		},
		Env: map[string]string{
			"CARGO_TERM_COLOR": "always",
			"RUSTFLAGS":        "-D warnings -A unknown_lints",
			"RUST_BACKTRACE":   "full",
		},
		Families: []FamilySpec{
			{
				Name: FamilyTest,
				Axes: osChannel(allOS, bothChannels),
				Steps: []Step{
					activate,
					{Name: "test", Run: "cargo test --workspace --all-features --release"},
				},
			},
			{
				Name: FamilyLint,
				Axes: osChannel(linuxOS, bothChannels),
				Steps: []Step{
					activate,
					{Name: "clippy-component", Run: "rustup component add clippy"},
					{Name: "install-cargo-hack", Run: "cargo install cargo-hack"},
					// The four target sets are independent checkpoints:
					// a later one still runs after an earlier failure,
					// and the instance reports the worst outcome.
					{Name: "lint-default", Run: "cargo hack clippy --workspace --feature-powerset", KeepGoing: true},
					{Name: "lint-bins", Run: "cargo hack clippy --workspace --feature-powerset --bins", KeepGoing: true},
					{Name: "lint-examples", Run: "cargo hack clippy --workspace --feature-powerset --examples", KeepGoing: true},
					{Name: "lint-tests", Run: "cargo hack clippy --workspace --feature-powerset --tests", KeepGoing: true},
				},
			},
			{
				Name: FamilyFormat,
				Axes: osChannel(linuxOS, nightlyOnly),
				Steps: []Step{
					activate,
					{Name: "rustfmt-component", Run: "rustup component add rustfmt"},
					{Name: "format-check", Run: "cargo fmt --all -- --check"},
				},
			},
			{
				// Doc diagnostics stricter than stable allows, hence the
				// nightly channel.
				Name: FamilyDocs,
				Axes: osChannel(linuxOS, nightlyOnly),
				Steps: []Step{
					activate,
					{
						Name: "doc",
						Run:  "cargo doc --workspace --all-features --no-deps --document-private-items",
						Env:  map[string]string{"RUSTDOCFLAGS": "-D warnings --cfg doc_cfg"},
					},
				},
			},
			{
				// Compiles benchmarks without running a single iteration:
				// catches bench-code breakage without paying for timing
				// runs on shared hardware.
				Name: FamilyCompileBench,
				Axes: osChannel(allOS, bothChannels),
				Steps: []Step{
					activate,
					{Name: "bench-build", Run: "cargo bench --workspace --all-features --no-run"},
				},
			},
		},
	}
}
