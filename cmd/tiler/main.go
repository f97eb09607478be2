// Command tiler is the CLI entrypoint for the out-of-core mesh tiler.
package main

import "github.com/MeKo-Tech/watercolormap/internal/cmd"

func main() {
	cmd.Execute()
}
