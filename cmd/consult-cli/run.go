package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/jonsim/openconsult/consult"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func run(cmd *cobra.Command) error {
	logger := consultLogger(cmd)

	transport, closeTransport, err := openTransport(logger)
	if err != nil {
		return err
	}
	defer closeTransport()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "performing handshake with %s...\n", device)
	}
	engine, err := consult.NewProtocolEngine(transport, logger)
	if err != nil {
		return errors.Wrap(err, "constructing protocol engine")
	}

	stdOut := cmd.OutOrStdout()

	if printECU {
		metadata, err := engine.ReadECUMetadata()
		if err != nil {
			return errors.Wrap(err, "reading ECU metadata")
		}
		fmt.Fprintln(stdOut, metadata.JSON())
	}

	if printFaults {
		faults, err := engine.ReadFaultCodes()
		if err != nil {
			return errors.Wrap(err, "reading fault codes")
		}
		faultsJSON, err := faults.JSON()
		if err != nil {
			return errors.Wrap(err, "rendering fault codes")
		}
		fmt.Fprintln(stdOut, faultsJSON)
	}

	if streamParams != "" {
		params, err := parseStreamParams(streamParams)
		if err != nil {
			return err
		}
		return streamEngineParameters(cmd, engine, params)
	}

	return nil
}

func parseStreamParams(spec string) ([]consult.EngineParameter, error) {
	names := strings.Split(spec, ",")
	params := make([]consult.EngineParameter, 0, len(names))
	for _, name := range names {
		p, err := consult.ParseEngineParameter(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		params = append(params, p)
	}
	return params, nil
}

func streamEngineParameters(cmd *cobra.Command, engine *consult.ProtocolEngine, params []consult.EngineParameter) error {
	stream, err := engine.StreamEngineParameters(params)
	if err != nil {
		return errors.Wrap(err, "starting engine parameter stream")
	}

	ctx, cancel := context.WithCancel(context.Background())
	ctx, _ = signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	stdOut := cmd.OutOrStdout()
	for {
		select {
		case <-ctx.Done():
			return errors.Wrap(stream.Release(), "releasing engine parameter stream")
		default:
		}

		frame, err := stream.GetFrame()
		if err != nil {
			stream.Release()
			return errors.Wrap(err, "reading engine parameter frame")
		}
		frameJSON, err := frame.JSON()
		if err != nil {
			stream.Release()
			return errors.Wrap(err, "rendering engine parameter frame")
		}
		fmt.Fprintln(stdOut, frameJSON)
	}
}

func openTransport(logger consult.Logger) (consult.ByteTransport, func(), error) {
	if replay {
		f, err := os.Open(device)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "opening replay log %q", device)
		}
		replayTransport, err := consult.NewReplayTransport(f, replayWrap, logger)
		if err != nil {
			f.Close()
			return nil, nil, errors.Wrap(err, "parsing replay log")
		}
		return replayTransport, func() { f.Close() }, nil
	}

	serialTransport, err := consult.OpenSerialTransport(device, consult.DefaultBaudRate, logger)
	if err != nil {
		return nil, nil, err
	}

	if logPath == "" {
		return serialTransport, func() { serialTransport.Close() }, nil
	}

	sink, err := os.OpenFile(logPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		serialTransport.Close()
		return nil, nil, errors.Wrapf(err, "opening log file %q", logPath)
	}
	recordTransport := consult.NewRecordTransport(serialTransport, sink, logger)
	closeFn := func() {
		recordTransport.Close()
		sink.Close()
		serialTransport.Close()
	}
	return recordTransport, closeFn, nil
}
