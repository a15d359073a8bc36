package cmd

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
	"github.com/markusressel/therm2go/internal/configuration"
	"github.com/markusressel/therm2go/internal/simulation"
	"github.com/markusressel/therm2go/internal/ui"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var (
	simulationCycles    int
	simulationSetpoints []string
	simulationPlant     = simulation.DefaultPlantConfig()
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the configured controller against a simulated thermal plant",
	Long: `Runs the configured controller in virtual time against a first order
thermal plant and prints the resulting temperature and command curves.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		setupUi()
		configPath := configuration.DetectAndReadConfigFile()
		ui.Info("Using configuration file at: %s", configPath)
		configuration.LoadConfig()

		schedule, err := simulation.ParseSchedule(simulationSetpoints)
		if err != nil {
			return err
		}

		sim, err := simulation.New(configuration.CurrentConfig.Controller, simulationPlant, schedule)
		if err != nil {
			return err
		}
		points, err := sim.Run(simulationCycles)
		if err != nil {
			ui.Error("Simulation stopped after %d cycles: %v", len(points), err)
		}
		if len(points) == 0 {
			return nil
		}

		temperatures := make([]float64, 0, len(points))
		targets := make([]float64, 0, len(points))
		commands := make([]float64, 0, len(points))
		for _, point := range points {
			temperatures = append(temperatures, point.Temperature)
			targets = append(targets, point.Target)
			commands = append(commands, point.Command)
		}

		ui.Printfln("%s", asciigraph.PlotMany(
			[][]float64{temperatures, targets},
			asciigraph.Height(15), asciigraph.Width(100),
			asciigraph.SeriesColors(asciigraph.Red, asciigraph.Blue),
			asciigraph.Caption("Temperature (red) / Target (blue)"),
		))
		ui.Printfln("")
		ui.Printfln("%s", asciigraph.Plot(
			commands,
			asciigraph.Height(10), asciigraph.Width(100),
			asciigraph.Caption("Command"),
		))
		ui.Printfln("")

		summary := simulation.Summarize(points)
		tab := table.Table{
			Headers: []string{"Cycles", "Failures", "Saturations", "Final", "Mean abs error", "Max overshoot"},
			Rows: [][]string{
				{
					fmt.Sprintf("%d", summary.Cycles),
					fmt.Sprintf("%d", summary.Failures),
					fmt.Sprintf("%d", summary.Saturations),
					fmt.Sprintf("%.2f", summary.FinalTemperature),
					fmt.Sprintf("%.4f", summary.MeanAbsError),
					fmt.Sprintf("%.4f", summary.MaxOvershoot),
				},
			},
		}
		return printTable(tab)
	},
}

func init() {
	simulateCmd.Flags().IntVarP(&simulationCycles, "cycles", "n", 600, "Number of control cycles to simulate")
	simulateCmd.Flags().StringSliceVarP(&simulationSetpoints, "setpoint", "s", []string{"0s=21"}, "Setpoint changes as <elapsed>=<target>, e.g. 0s=21,5m=23")
	simulateCmd.Flags().Float64Var(&simulationPlant.Initial, "initial", simulationPlant.Initial, "Initial plant temperature")
	simulateCmd.Flags().Float64Var(&simulationPlant.Ambient, "ambient", simulationPlant.Ambient, "Ambient temperature")
	simulateCmd.Flags().Float64Var(&simulationPlant.HeaterGain, "heater-gain", simulationPlant.HeaterGain, "Temperature change per second per unit of command")
	simulateCmd.Flags().Float64Var(&simulationPlant.LossCoefficient, "loss", simulationPlant.LossCoefficient, "Heat loss per second per degree above ambient")

	rootCmd.AddCommand(simulateCmd)
}
