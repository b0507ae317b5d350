package path

import (
	"fmt"
	"github.com/spf13/cobra"
	"strings"
)

var (
	getCmd = &cobra.Command{
		Use:   "get [path]",
		Short: "Reads the value at a path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if value, found, err := pathClient.Get(path); err != nil {
				return err
			} else {
				fmt.Printf("path=%s, found=%t, value=%s\n", path, found, value)
			}
			return nil
		},
	}
	postCmd = &cobra.Command{
		Use:   "post [path]",
		Short: "Stores the server's POST value at a path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pathClient.Post(args[0]); err != nil {
				return err
			} else {
				fmt.Println("post successfully")
			}
			return nil
		},
	}
	deleteCmd = &cobra.Command{
		Use:   "delete [path]",
		Short: "Deletes a path and everything beneath it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pathClient.Delete(args[0]); err != nil {
				return err
			} else {
				fmt.Println("delete successfully")
			}
			return nil
		},
	}
	headCmd = &cobra.Command{
		Use:   "head [path]",
		Short: "Checks if a path holds a value (if the server supports HEAD)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if found, err := pathClient.Head(path); err != nil {
				return err
			} else {
				fmt.Printf("path=%s, found=%t\n", path, found)
			}
			return nil
		},
	}
	rawCmd = &cobra.Command{
		Use:   "raw [line...]",
		Short: "Sends a request line as is and prints the reply",
		Long:  `Sends a request line as is and prints the reply, e.g. "ephemeral path raw GET /a/b HTTP/1.1". The arguments are joined with single spaces.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reply, err := pathClient.Raw(strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Printf("status=%s, value=%s, err=%s\n", reply.Status, reply.Value, reply.Err)
			return nil
		},
	}
)
