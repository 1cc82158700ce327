//
//   Copyright 2023 The original authors
//
//   Licensed under the Apache License, Version 2.0 (the "License");
//   you may not use this file except in compliance with the License.
//   You may obtain a copy of the License at
//
//       http://www.apache.org/licenses/LICENSE-2.0
//
//   Unless required by applicable law or agreed to in writing, software
//   distributed under the License is distributed on an "AS IS" BASIS,
//   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//   See the License for the specific language governing permissions and
//   limitations under the License.
//

// Command create-measurements generates the weather station measurement
// files used by the one billion row challenge.
//
//	create-measurements generate <number_of_records> [output_file]
package main

import (
	"context"
	"os"
	"os/signal"

	"xpug.it/1brc-measurements/internal/cli"
)

// version is set with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := cli.NewRootCmd(version)
	root.SetArgs(args)
	cmd, err := root.ExecuteContextC(ctx)
	return cli.ExitCode(cmd, err)
}
