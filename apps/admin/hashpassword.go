package main

import (
	"fmt"

	"github.com/trezcool/ielts/core/teacher"
)

func (cli *commandLine) hashPassword(pwd string) error {
	hash, err := teacher.HashPassword(pwd)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cli.out, hash)
	return err
}
