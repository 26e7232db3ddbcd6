// SPDX-License-Identifier: MPL-2.0

package runtime

type (
	// Observer receives the outcome of every runtime launch. It is passive:
	// nothing it does influences control flow.
	Observer interface {
		ObserveLaunch(executable, stdout, stderr string, exitCode int)
	}

	// ObserverFunc adapts a function to the Observer interface.
	ObserverFunc func(executable, stdout, stderr string, exitCode int)

	// NopObserver discards launch reports.
	NopObserver struct{}
)

// ObserveLaunch calls f.
func (f ObserverFunc) ObserveLaunch(executable, stdout, stderr string, exitCode int) {
	f(executable, stdout, stderr, exitCode)
}

// ObserveLaunch does nothing.
func (NopObserver) ObserveLaunch(string, string, string, int) {}
