package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/markusressel/therm2go/cmd/global"
	"github.com/markusressel/therm2go/internal/configuration"
	"github.com/markusressel/therm2go/internal/persistence"
	"github.com/markusressel/therm2go/internal/ui"
	"github.com/mgutz/ansi"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var deleteState bool

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Print the last persisted state of the controller",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		setupUi()
		configPath := configuration.DetectAndReadConfigFile()
		ui.Info("Using configuration file at: %s", configPath)
		configuration.LoadConfig()

		controllerId := configuration.CurrentConfig.Controller.ID
		pers := persistence.NewPersistence(configuration.CurrentConfig.DbPath)
		if deleteState {
			return deletePersistedState(pers, controllerId)
		}

		record, err := pers.LoadControllerRecord(controllerId)
		if errors.Is(err, os.ErrNotExist) {
			ui.Warning("No state persisted for controller %s yet", controllerId)
			return nil
		} else if err != nil {
			return err
		}

		status := record.Status
		tab := table.Table{
			Headers: []string{"", ""},
			Rows: [][]string{
				{"Controller", status.ID},
				{"Saved at", record.SavedAt.Format(time.RFC3339)},
				{"Cycles", fmt.Sprintf("%d", status.Cycles)},
				{"Failures", fmt.Sprintf("%d", status.Failures)},
				{"Saturations", fmt.Sprintf("%d", status.Saturations)},
				{"Fail-safe writes", fmt.Sprintf("%d", status.FailSafeWrites)},
				{"Measured", fmt.Sprintf("%.2f", status.LastSample.Measured)},
				{"Target", fmt.Sprintf("%.2f", status.LastSample.Target)},
				{"Command", fmt.Sprintf("%.4f", status.LastCommand.Value)},
				{"Saturated", fmt.Sprintf("%v", status.LastCommand.Saturated)},
				{"P / I / D", fmt.Sprintf("%.4f / %.4f / %.4f", status.LastCommand.P, status.LastCommand.I, status.LastCommand.D)},
				{"Avg error", fmt.Sprintf("%.4f", status.AvgError)},
				{"Max abs error", fmt.Sprintf("%.4f", status.MaxAbsError)},
				{"Last error", status.LastError},
			},
		}
		return printTable(tab)
	},
}

func deletePersistedState(pers persistence.Persistence, controllerId string) error {
	if err := pers.DeleteControllerRecord(controllerId); err != nil {
		return err
	}
	ui.Success("Deleted persisted state of controller %s", controllerId)
	return nil
}

func printTable(tab table.Table) error {
	var buf bytes.Buffer
	err := tab.WriteTable(&buf, &table.Config{
		ShowIndex:       false,
		Color:           !global.NoColor,
		AlternateColors: true,
		TitleColorCode:  ansi.ColorCode("white+buf"),
		AltColorCodes: []string{
			ansi.ColorCode("white"),
			ansi.ColorCode("white:236"),
		},
	})
	if err != nil {
		return err
	}
	ui.Printfln("%s", buf.String())
	return nil
}

func init() {
	stateCmd.Flags().BoolVarP(&deleteState, "delete", "d", false, "Delete the persisted state instead of printing it")
	rootCmd.AddCommand(stateCmd)
}
