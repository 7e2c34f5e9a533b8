package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/hipsterbrown/feetech-servo/feetech"
	"go.bug.st/serial"

	"github.com/gwillem/onyx/pkg/robot"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	subHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type SetupCommand struct {
	Baud int `long:"baud" default:"1000000" description:"Servo bus baud rate"`
}

func (c *SetupCommand) Execute(args []string) error {
	fmt.Println(headerStyle.Render("ONYX Setup"))
	fmt.Println(dimStyle.Render("━━━━━━━━━━"))
	fmt.Println()

	if robot.ConfigExists(opts.Config) {
		overwrite := false
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("%s already exists. Overwrite it?", opts.Config)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil || !overwrite {
			fmt.Println("Keeping existing configuration.")
			return nil
		}
	}

	// Step 1: Scan for the servo bus
	port := c.scanForRobot()

	// Step 2: Write configuration with the stock calibration
	config := &robot.Config{
		Port:        port,
		BaudRate:    c.Baud,
		Calibration: robot.DefaultCalibration(),
	}
	if err := config.SaveTo(opts.Config); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Println()
	fmt.Println(subHeaderStyle.Render("━━━ Calibration ━━━"))
	fmt.Println(renderCalibration(config.Calibration, nil))
	fmt.Println()
	fmt.Println(successStyle.Render("Setup complete!"))
	fmt.Printf("Configuration saved to %s\n", opts.Config)
	fmt.Println("Edit the min/max/mid angles there to match your build.")
	fmt.Println()
	fmt.Println("Stand up with: " + headerStyle.Render("onyx stand"))
	fmt.Println("Walk with:     " + headerStyle.Render("onyx walk"))

	return nil
}

type busInfo struct {
	port   string
	servos []feetech.FoundServo
	bus    *feetech.Bus
}

func (c *SetupCommand) scanForRobot() string {
	fmt.Println("Scanning for the ONYX servo bus...")
	fmt.Println()

	buses := c.findBuses()
	if len(buses) == 0 {
		fmt.Println("No servo bus with leg servos found.")
		fmt.Println("Make sure the controller is connected and the servos are powered.")
		os.Exit(1)
	}

	if len(buses) == 1 {
		b := buses[0]
		b.bus.Close()
		reportServos(b)
		return b.port
	}

	fmt.Printf("Found %d candidate buses. Let's identify the robot...\n\n", len(buses))

	var port string
	for _, b := range buses {
		if port != "" {
			b.bus.Close()
			continue
		}
		if identifyWithWiggle(b) {
			reportServos(b)
			port = b.port
		}
	}

	if port == "" {
		fmt.Println("No bus was selected.")
		os.Exit(1)
	}
	return port
}

func (c *SetupCommand) findBuses() []busInfo {
	ports, err := serial.GetPortsList()
	if err != nil {
		fmt.Printf("Error listing ports: %v\n", err)
		return nil
	}

	var buses []busInfo

	for _, port := range ports {
		// Skip Bluetooth ports on macOS
		if strings.Contains(port, "Bluetooth") {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)

		bus, err := feetech.NewBus(feetech.BusConfig{
			Port:     port,
			BaudRate: c.Baud,
			Protocol: feetech.ProtocolSTS,
			Timeout:  100 * time.Millisecond,
		})
		if err != nil {
			cancel()
			continue
		}

		// Scan for the leg servos, IDs 1-8
		servos, err := bus.Scan(ctx, 1, len(robot.AllJoints()))
		cancel()

		if err != nil || len(servos) == 0 {
			bus.Close()
			continue
		}

		fmt.Printf("  Found %d leg servo(s) on %s\n", len(servos), port)
		buses = append(buses, busInfo{
			port:   port,
			servos: servos,
			bus:    bus,
		})
	}

	return buses
}

func reportServos(b busInfo) {
	found := make(map[int]bool, len(b.servos))
	for _, s := range b.servos {
		found[s.ID] = true
	}

	var missing []string
	for i, name := range robot.AllJoints() {
		if !found[i+1] {
			missing = append(missing, fmt.Sprintf("%d (%s)", i+1, name))
		}
	}

	fmt.Println()
	fmt.Printf("Using %s\n", b.port)
	if len(missing) > 0 {
		fmt.Println(warnStyle.Render("Missing servos: " + strings.Join(missing, ", ")))
		fmt.Println(warnStyle.Render("The gait will skip them."))
	}
}

// identifyWithWiggle swings the first servo on the bus and asks whether that
// was the robot. The bus is closed on return.
func identifyWithWiggle(b busInfo) bool {
	defer b.bus.Close()

	ctx := context.Background()

	s := b.servos[0]
	servo := feetech.NewServo(b.bus, s.ID, s.Model)

	// Read current position
	originalPos, err := servo.Position(ctx)
	if err != nil {
		fmt.Printf("  Error reading position: %v\n", err)
		return false
	}

	// Enable torque for wiggle
	if err := servo.Enable(ctx); err != nil {
		fmt.Printf("  Error enabling servo: %v\n", err)
		return false
	}

	fmt.Printf("\n  Wiggling servo %d on %s...\n", s.ID, b.port)

	// Wiggle: single gentle, slow movement
	wiggleAmount := 30
	moveTimeMs := 500
	for _, pos := range []int{originalPos + wiggleAmount, originalPos - wiggleAmount, originalPos} {
		if err := servo.SetPositionWithTime(ctx, pos, moveTimeMs); err != nil {
			fmt.Println(warnStyle.Render(fmt.Sprintf("  Warning: servo %d did not move: %v", s.ID, err)))
		}
		time.Sleep(time.Duration(moveTimeMs+100) * time.Millisecond)
	}

	// Disable torque
	if err := servo.Disable(ctx); err != nil {
		fmt.Println(warnStyle.Render(fmt.Sprintf("  Warning: failed to disable servo %d: %v", s.ID, err)))
	}

	var choice string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(fmt.Sprintf("Did a leg of ONYX just move (%s)?", b.port)).
				Options(
					huh.NewOption("Yes, use this bus", "use"),
					huh.NewOption("No, skip it", "skip"),
				).
				Value(&choice),
		),
	)

	if err := form.Run(); err != nil {
		fmt.Println()
		os.Exit(0)
	}

	return choice == "use"
}

// renderCalibration renders the calibration as a table. When pose is not nil
// its angles are shown in an extra column.
func renderCalibration(cal robot.Calibration, pose robot.Pose) string {
	tableHeaderStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	tableJointStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Padding(0, 1)
	tableCellStyle := lipgloss.NewStyle().Padding(0, 1)
	tableAngleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Padding(0, 1)

	headers := []string{"ID", "Joint", "Min", "Max", "Mid"}
	if pose != nil {
		headers = append(headers, "Baseline")
	}

	rows := make([][]string, 0, len(cal))
	for _, name := range robot.AllJoints() {
		jc, ok := cal[name]
		if !ok {
			continue
		}
		row := []string{
			fmt.Sprintf("%d", jc.ID),
			string(name),
			fmt.Sprintf("%.0f", jc.Min),
			fmt.Sprintf("%.0f", jc.Max),
			fmt.Sprintf("%.1f", jc.Mid),
		}
		if pose != nil {
			if angle, ok := pose[jc.ID]; ok {
				row = append(row, fmt.Sprintf("%.1f", angle))
			} else {
				row = append(row, "—")
			}
		}
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			switch col {
			case 1:
				return tableJointStyle
			case 5:
				return tableAngleStyle
			default:
				return tableCellStyle
			}
		})

	return t.Render()
}
