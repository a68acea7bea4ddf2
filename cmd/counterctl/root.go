// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"github.com/joho/godotenv"
	"github.com/orbs-network/counter-controller/bootstrap"
	"github.com/orbs-network/counter-controller/config"
	"github.com/orbs-network/counter-controller/instrumentation"
	"github.com/orbs-network/counter-controller/instrumentation/metric"
	"github.com/orbs-network/counter-controller/services/counter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/ed25519"
	"golang.org/x/crypto/ssh/terminal"
	"os"
	"strings"
)

type keyReader func(prompt string) (string, error)

type options struct {
	configFiles config.FilesPaths
	envFile     string
	promptKey   bool
	verbose     bool
	readKey     keyReader
}

func newRootCommand(readKey keyReader) *cobra.Command {
	opts := &options{readKey: readKey}

	rootCmd := &cobra.Command{
		Use:           "counterctl",
		Short:         "Read and modify the counter contract from the command line.",
		Long:          "counterctl connects to the configured counter contract with the same connectors and guards the controller daemon uses.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := rootCmd.PersistentFlags()
	flags.Var(&opts.configFiles, "config", "path/to/config.json, may be repeated")
	flags.StringVar(&opts.envFile, "env", ".env", "dotenv file with config keys, skipped when missing")
	flags.BoolVar(&opts.promptKey, "prompt-key", false, "read the private key from the terminal instead of the config")
	flags.BoolVar(&opts.verbose, "verbose", false, "write the full log to stderr")

	rootCmd.AddCommand(
		newShowCommand(opts),
		newActionCommand(opts, "increase", "Increase the counter by one.", counter.Increase()),
		newActionCommand(opts, "decrease", "Decrease the counter by one.", counter.Decrease()),
		newActionCommand(opts, "reset", "Reset the counter to 0, anyone may reset for a fee.", counter.Reset()),
		newSetCommand(opts),
		newValidateCommand(),
		newVersionCommand(),
	)

	return rootCmd
}

// environment variables win over the dotenv file
func (o *options) environment() (map[string]string, error) {
	env := make(map[string]string)

	if o.envFile != "" {
		if _, err := os.Stat(o.envFile); err == nil {
			fromFile, err := godotenv.Read(o.envFile)
			if err != nil {
				return nil, errors.Wrapf(err, "failed reading %s", o.envFile)
			}
			env = fromFile
		}
	}

	for _, pair := range os.Environ() {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) == 2 {
			env[kv[0]] = kv[1]
		}
	}

	if o.verbose {
		env[config.LOGGER_FULL_LOG] = "true"
	}

	return env, nil
}

func (o *options) loadConfig() (config.NodeConfig, error) {
	env, err := o.environment()
	if err != nil {
		return nil, err
	}

	cfg, err := config.GetNodeConfigFromFilesAndEnvironment(o.configFiles, env, "")
	if err != nil {
		return nil, err
	}

	if !o.promptKey {
		return cfg, nil
	}

	switch cfg.ContractConnector() {
	case config.CONNECTOR_ETHEREUM:
		key, err := o.readKey("Ethereum private key: ")
		if err != nil {
			return nil, err
		}
		env[config.ETHEREUM_PRIVATE_KEY] = key

	case config.CONNECTOR_ORBS:
		key, err := o.readKey("Orbs private key: ")
		if err != nil {
			return nil, err
		}
		publicKey, err := orbsPublicKeyOf(key)
		if err != nil {
			return nil, err
		}
		env[config.ORBS_PRIVATE_KEY] = key
		env[config.ORBS_PUBLIC_KEY] = publicKey

	default:
		return nil, errors.Errorf("connector %s does not take a private key", cfg.ContractConnector())
	}

	return config.GetNodeConfigFromFilesAndEnvironment(o.configFiles, env, "")
}

// runWithService connects, loads the counter and the owner, then hands over the service
func (o *options) runWithService(cmd *cobra.Command, f func(ctx context.Context, service *counter.Service) error) error {
	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}
	if err := config.ValidateNodeConfig(cfg); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	logger := instrumentation.GetConsoleLogger(cmd.ErrOrStderr(), cfg)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.TransactionTimeout())
	defer cancel()

	connection, err := bootstrap.NewConnection(ctx, cfg, logger)
	if err != nil {
		return errors.Wrap(err, "failed connecting to the counter contract")
	}

	service := counter.NewService(ctx, cfg, logger, connection.Wallet, connection.Contract, metric.NewRegistry())
	service.Refresh(ctx)

	return f(ctx, service)
}

// the orbs private key carries the public key in its second half
func orbsPublicKeyOf(privateKeyHex string) (string, error) {
	privateKey, err := hex.DecodeString(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return "", errors.Wrap(err, "invalid orbs private key")
	}
	if len(privateKey) != ed25519.PrivateKeySize {
		return "", errors.Errorf("invalid orbs private key: expected %d bytes, got %d", ed25519.PrivateKeySize, len(privateKey))
	}
	return hex.EncodeToString(ed25519.PrivateKey(privateKey).Public().(ed25519.PublicKey)), nil
}

func promptForKey(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !terminal.IsTerminal(fd) {
		return "", errors.New("--prompt-key requires an interactive terminal")
	}

	fmt.Fprint(os.Stderr, prompt)
	key, err := terminal.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", errors.Wrap(err, "failed reading private key")
	}
	return strings.TrimSpace(string(key)), nil
}
