// compileinfoprint is imported for the side effect of printing the build
// provenance of the running binary to os.Stderr before main runs.
package compileinfoprint

import "github.com/carbocation/colorimetry/compileinfo"

func init() {
	compileinfo.PrintToStdErr()
}
