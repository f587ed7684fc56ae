// Command bookshelf manages a personal book collection from the terminal or over HTTP.
package main

import (
	"errors"
	"fmt"
	"os"
)

var version = "dev"

func main() {
	app := &application{}

	err := newRootCmd(app).Execute()
	err = errors.Join(err, app.close())

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
