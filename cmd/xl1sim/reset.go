// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-tty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"
)

func resetAction(ctx *cli.Context) error {
	if _, err := initLogger(ctx); err != nil {
		return err
	}
	gen, err := selectGenesis(ctx)
	if err != nil {
		return err
	}
	dir, err := instanceDir(ctx, gen)
	if err != nil {
		return err
	}

	if !ctx.Bool(yesFlag.Name) {
		ok, err := confirm(fmt.Sprintf("Remove all ledger data in %s? [y/N] ", dir))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("aborted")
			return nil
		}
	}
	if err := os.RemoveAll(dir); err != nil {
		return errors.Wrapf(err, "remove instance dir [%v]", dir)
	}
	logger.Info("ledger data removed", "dir", dir)
	return nil
}

func confirm(prompt string) (bool, error) {
	t, err := tty.Open()
	if err != nil {
		return false, errors.Wrap(err, "open tty")
	}
	defer t.Close()

	fmt.Fprint(os.Stderr, prompt)
	answer, err := t.ReadString()
	if err != nil {
		return false, errors.Wrap(err, "read answer")
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
