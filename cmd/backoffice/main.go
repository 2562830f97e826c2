// Backoffice runs the meal-kit order back-office service.
//
// Its main job is keeping order documents small: a nightly retention sweep
// strips per-day delivery statuses older than the retention window, and
// operators can trigger the same sweep on demand over HTTP or from the
// command line.
//
// Usage:
//
//	# Start the API server and the nightly scheduler
//	backoffice run --config /etc/backoffice/backoffice.yaml
//
//	# Run a one-off sweep and print the report
//	backoffice sweep
//
//	# Load orders from a JSON export, then inspect them
//	backoffice orders import orders.json
//	backoffice orders list --output csv
//
//	# Check a configuration file
//	backoffice validate --config backoffice.yaml
package main

func main() {
	Execute()
}
