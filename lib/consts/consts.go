// Package consts houses some constants needed across workshop
package consts

import (
	"fmt"
	"runtime"
	"strings"
)

// Version contains the current semantic version of workshop.
const Version = "0.4.0"

// Banner returns the ASCII-art banner printed at the start of a run.
func Banner() string {
	banner := strings.Join([]string{
		`                     _        _                 `,
		` __      _____  _ __| | _____| |__   ___  _ __  `,
		` \ \ /\ / / _ \| '__| |/ / __| '_ \ / _ \| '_ \ `,
		`  \ V  V / (_) | |  |   <\__ \ | | | (_) | |_) |`,
		`   \_/\_/ \___/|_|  |_|\_\___/_| |_|\___/| .__/ `,
		`                                         |_|    `,
	}, "\n")

	return banner
}

// FullVersion returns the maximally full version and build information for
// the currently running workshop executable.
func FullVersion() string {
	return fmt.Sprintf("%s (%s, %s/%s)", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
