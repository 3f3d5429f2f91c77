package main

import (
	"fmt"
	"io"

	"github.com/jonsim/openconsult/consult"
	"github.com/spf13/cobra"
)

func init() {
	portsCmd.AddCommand(listPortsCmd)
	rootCmd.AddCommand(portsCmd)
}

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "Inspect the serial ports available on the host",
}

var listPortsCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available serial ports on the host",
	RunE: func(cmd *cobra.Command, args []string) error {
		ports, err := consult.AvailableSerialPorts()
		if err != nil {
			return err
		}
		listPorts(cmd.OutOrStdout(), ports)
		return nil
	},
}

func listPorts(w io.Writer, ports []consult.SerialPort) {
	for i, p := range ports {
		fmt.Fprintf(w, "[%d]:\tPortName: '%s'\n\tProduct: %s\n\tVID/PID: %s/%s\n\tUSB: %v\n",
			i, p.PortName, p.Description, p.VendorID, p.ProductID, p.IsUSB)
	}
}
