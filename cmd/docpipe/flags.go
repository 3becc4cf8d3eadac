package main

import (
	flag "github.com/spf13/pflag"
)

// cliFlags holds the flags shared by every pipeline.
type cliFlags struct {
	config      string
	dataType    string
	pipelines   string
	concurrency int
	outputDir   string
	draw        string
	list        bool
	verbose     bool
}

const (
	pipelinesFlag   = "pipelines"
	concurrencyFlag = "concurrency"
	outputDirFlag   = "output-dir"
	drawFlag        = "draw"
)

func addFlags(fs *flag.FlagSet) *cliFlags {
	f := &cliFlags{}
	fs.StringVarP(&f.config, "config", "c", "", "path to a YAML config file")
	fs.StringVarP(&f.dataType, "type", "t", "", "data type of the inputs, guessed from the extension when empty")
	fs.StringVarP(&f.pipelines, pipelinesFlag, "p", "", "comma separated pipelines to chain")
	fs.IntVarP(&f.concurrency, concurrencyFlag, "j", 1, "number of files converted at once")
	fs.StringVarP(&f.outputDir, outputDirFlag, "o", "", "directory receiving the converted files")
	fs.StringVar(&f.draw, drawFlag, "", "write the observed data type transitions to a DOT file")
	fs.BoolVar(&f.list, "list", false, "list the registered pipelines and exit")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "log every dispatched step")

	return f
}
