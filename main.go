package main

import (
	"rail-pipeline/cmd" // Import the cmd package which contains the CLI commands and execution logic
)

// main is the program entry point.
// It delegates to cmd.Execute() which handles command line argument parsing and execution.
//
// This design cleanly separates the CLI interface (cmd package) from main,
// allowing easier testing, extension, and reuse of the CLI commands.
//
// The rail-pipeline project orchestrates a municipal housing / train-station study:
//   - Validates CLI flags against fixed allow-lists before anything runs
//   - Bootstraps the Python analysis environment (virtualenv creation, pinned
//     dependency installation) idempotently, driven by a JSON state file rather
//     than ambient shell state
//   - Forwards validated flags unchanged to the pipeline entrypoint that builds
//     the dataset and runs the two analysis phases
//   - Compresses generated HTML choropleth maps to gzip, clearing stale
//     compressed siblings first
//   - Cleans generated artifacts by category (datasets, station data, analysis
//     output, phase 1, phase 2) or wipes the whole output tree
//   - Publishes result artifacts to a cloud VM over gcloud ssh/scp and
//     mirror-syncs them into the web served directory
//
// Error handling strategy:
//   - Invalid arguments and missing configuration fail fast with a descriptive
//     message and a non-zero exit before any side effect is performed
//   - External command failures (pip, python, gcloud) halt execution at that
//     step; completed steps are left in place with no compensating rollback
//
// Destructive operations (deletion, remote mirror sync) honor a global
// --dry-run flag that prints what would happen instead of doing it.
func main() {
	cmd.Execute()
}
