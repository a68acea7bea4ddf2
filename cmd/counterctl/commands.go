// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package main

import (
	"context"
	"fmt"
	"github.com/orbs-network/counter-controller/config"
	"github.com/orbs-network/counter-controller/services/counter"
	"github.com/spf13/cobra"
	"io"
)

func newShowCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the counter, the owner and which actions are available.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.runWithService(cmd, func(ctx context.Context, service *counter.Service) error {
				printAffordances(cmd.OutOrStdout(), service.Affordances(""))
				return nil
			})
		},
	}
}

func newActionCommand(opts *options, use string, short string, request counter.ActionRequest) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.runWithService(cmd, func(ctx context.Context, service *counter.Service) error {
				return submitAndPrint(ctx, cmd.OutOrStdout(), service, request)
			})
		},
	}
}

func newSetCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "set <value>",
		Short: "Set the counter to an unsigned 32-bit value.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			request, err := counter.NewSetRequest(args[0])
			if err != nil {
				return err
			}
			return opts.runWithService(cmd, func(ctx context.Context, service *counter.Service) error {
				return submitAndPrint(ctx, cmd.OutOrStdout(), service, request)
			})
		},
	}
}

// validate needs no connection, it is the same check the set input runs on every keystroke
func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <value>",
		Short: "Check a value would be accepted by set.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			validation := counter.ValidateInput(args[0])
			if !validation.Valid() {
				return &counter.ValidationError{Validation: validation}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d is valid\n", validation.Value)
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), config.GetVersion())
		},
	}
}

func submitAndPrint(ctx context.Context, out io.Writer, service *counter.Service, request counter.ActionRequest) error {
	if err := service.Submit(ctx, request); err != nil {
		return err
	}

	reading := waitForRefresh(ctx, service)
	fmt.Fprintf(out, "%s succeeded\n", request.Kind())
	fmt.Fprintf(out, "Counter: %s\n", reading.Display())
	return nil
}

// waitForRefresh waits for the read a successful Submit already started instead of issuing another
func waitForRefresh(ctx context.Context, service *counter.Service) counter.Reading {
	settled := make(chan counter.Reading, 1)
	unsubscribe := service.Coordinator().Subscribe(func(reading counter.Reading) {
		if !reading.Loading {
			select {
			case settled <- reading:
			default:
			}
		}
	})
	defer unsubscribe()

	if reading := service.Reading(); !reading.Loading {
		return reading
	}

	select {
	case reading := <-settled:
		return reading
	case <-ctx.Done():
		return service.Reading()
	}
}

func printAffordances(out io.Writer, a counter.Affordances) {
	identity := a.Identity
	if identity == "" {
		identity = "disconnected"
	}

	fmt.Fprintf(out, "Counter:  %s\n", a.Counter.Display)
	if a.Counter.Error != "" {
		fmt.Fprintf(out, "Error:    %s\n", a.Counter.Error)
	}
	fmt.Fprintf(out, "Owner:    %s\n", a.Owner)
	fmt.Fprintf(out, "Identity: %s\n", identity)
	if a.ConnectPrompt != "" {
		fmt.Fprintln(out, a.ConnectPrompt)
	}
	if a.AccessDenied != "" {
		fmt.Fprintln(out, a.AccessDenied)
	}

	for _, control := range []counter.Control{a.Increase, a.Decrease, a.Reset, a.Set} {
		if control.Enabled {
			fmt.Fprintf(out, "  %-9s available\n", control.Kind)
		} else {
			fmt.Fprintf(out, "  %-9s %s\n", control.Kind, control.Hint)
		}
	}
}
