// Command clientspot-admin bootstraps administrator accounts.
//
//	clientspot-admin -config_folder backend/config create-admin -email root@example.com -first Ada -last Lovelace
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/clientspot/clientspot/backend/internal/service"
	"github.com/clientspot/clientspot/backend/internal/setup"
	"github.com/clientspot/clientspot/shared/config"
	"github.com/clientspot/clientspot/shared/domain"
	"github.com/clientspot/clientspot/shared/logger"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

type adminCreator interface {
	CreateAdmin(ctx context.Context, in service.AdminInput) (domain.User, error)
}

func main() {
	var configFolder string
	flag.StringVar(&configFolder, "config_folder", "backend/config", "path to folder with configs")
	flag.Parse()

	cfg := config.MustLoad(configFolder)
	logger.Initialize(cfg.Public.LogLevel, cfg.Public.LogJSON)

	ctx := context.Background()
	account, cleanup, err := setup.SetupAdmin(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	defer cleanup()

	if err := run(ctx, flag.Args(), account, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		cleanup()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, account adminCreator, w io.Writer) error {
	if len(args) == 0 || args[0] != "create-admin" {
		return errors.New("usage: clientspot-admin create-admin -email EMAIL -first NAME -last NAME")
	}

	fs := flag.NewFlagSet("create-admin", flag.ContinueOnError)
	fs.SetOutput(w)
	email := fs.String("email", "", "admin email")
	first := fs.String("first", "", "first name")
	last := fs.String("last", "", "last name")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	if *email == "" || *first == "" || *last == "" {
		return errors.New("-email, -first and -last are required")
	}

	password, err := promptPassword(w)
	if err != nil {
		return err
	}

	user, err := account.CreateAdmin(ctx, service.AdminInput{
		Email:     *email,
		FirstName: *first,
		LastName:  *last,
		Password:  password,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "admin %s created with id %s\n", user.Email, user.Id)
	return nil
}

func promptPassword(w io.Writer) (string, error) {
	fmt.Fprint(w, "Enter password: ")
	first, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}

	fmt.Fprint(w, "Repeat password: ")
	second, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}

	if !bytes.Equal(first, second) {
		return "", errors.New("passwords do not match")
	}
	return string(first), nil
}
