// Copyright 2015 Google Inc. All rights reserved
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command gcnasm runs a single input file through the stream input
// filter and prints the resulting logical lines. It does not expand
// includes, macros or repeat blocks. It does not decode
// or emit GCN machine code: the dialect/device/container logic spec.md
// places out of scope is not implemented here, only the core pipeline
// this repository actually covers.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"

	"github.com/clrxproject/gcnasm"
)

var (
	dialectFlag   string
	deviceFlag    string
	dumpCodeFlag  bool
	floatLitsFlag bool
	hexCodeFlag   bool
)

func parseFlags() {
	flag.StringVar(&dialectFlag, "dialect", "amd", "binary dialect: amd, amdcl2, gallium, rawcode")
	flag.StringVar(&deviceFlag, "device", "", "GPU device type name")
	flag.BoolVar(&dumpCodeFlag, "dump-code", false, "dump decoded instruction text")
	flag.BoolVar(&floatLitsFlag, "float-lits", false, "render float literals in disassembly")
	flag.BoolVar(&hexCodeFlag, "hex-code", false, "print raw hex alongside decoded text")
}

// preprocess drains filt and prints each logical line to stdout; the
// lexical diagnostics (unterminated comments/strings) go to the sink the
// filter itself was built with, and sink is not used here. It does not
// assemble or decode the lines.
func preprocess(filt gcnasm.InputFilter, sink gcnasm.DiagSink) error {
	for {
		line, _, ok, err := filt.ReadLine()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if glog.V(2) {
			glog.Infof("%s:%d: %s", filt.Source(), filt.CurrentLine(), line)
		}
		fmt.Println(string(line))
	}
}

func main() {
	parseFlags()
	flag.Parse()

	switch dialectFlag {
	case "amd", "amdcl2", "gallium", "rawcode":
	default:
		fmt.Fprintf(os.Stderr, "gcnasm: unknown dialect %q\n", dialectFlag)
		os.Exit(1)
	}

	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: gcnasm [flags] <source-file>")
		os.Exit(1)
	}

	f, err := os.Open(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "gcnasm: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	sink := gcnasm.NewStderrSink(os.Stderr)
	filt := gcnasm.NewStreamInputFilter(f, args[0], sink)
	filt.SetCloser(f)

	if err := preprocess(filt, sink); err != nil {
		fmt.Fprintf(os.Stderr, "gcnasm: %v\n", err)
		os.Exit(1)
	}
	if sink.Errors > 0 {
		os.Exit(1)
	}
}
