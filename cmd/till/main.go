package main

import (
	"flag"
	"os"
	"sync/atomic"

	"github.com/juju/errors"
	"github.com/temoto/till/console"
	"github.com/temoto/till/helpers/cli"
	"github.com/temoto/till/log2"
	"github.com/temoto/till/state"
)

var log = log2.NewStderr(log2.LInfo)

func main() {
	cmdline := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	flagConfig := cmdline.String("config", "till.hcl", "")
	flagDebug := cmdline.Bool("debug", false, "")
	_ = cmdline.Parse(os.Args[1:])

	log.SetFlags(log2.LInteractiveFlags)
	if *flagDebug {
		log.SetLevel(log2.LDebug)
	}

	config := state.MustReadConfig(log, state.NewOsFullReader(), *flagConfig)
	log.Debugf("config=%+v", config)
	if level, err := config.LogLevel(); err == nil && !*flagDebug {
		log.SetLevel(level)
	}

	register, minter, err := config.NewRegister(log)
	if err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	log.Infof("till currency=%s value=%s", minter.Label(), register.Value().Format(config.Scale()))

	// piped script exits 1 if any command failed
	var errCount uint32
	log.SetErrorFunc(func(error) { atomic.AddUint32(&errCount, 1) })

	con := console.New(log, register, minter, config.Scale(), os.Stdout)
	exec := func(line string) {
		if err := con.Exec(line); err != nil {
			if log.Enabled(log2.LDebug) {
				log.Errorf("%s", errors.ErrorStack(err))
			} else {
				log.Error(err)
			}
		}
	}
	if err := cli.MainLoop("till", exec, cli.WordCompleter(console.Commands())); err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	if n := atomic.LoadUint32(&errCount); n != 0 {
		log.Infof("commands failed=%d", n)
		os.Exit(1)
	}
}
