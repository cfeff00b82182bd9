package main

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/muurk/fireremote/internal/config"
	"github.com/muurk/fireremote/internal/discovery"
	"github.com/muurk/fireremote/internal/remote"
	"github.com/muurk/fireremote/internal/remote/tui"
)

// Command flags
var (
	deviceAddr    string
	scanTimeout   int
	pinFlag       string
	mediaDuration int
	mediaSpeed    int
	noWake        bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&deviceAddr, "device", "", "Device IP address (overrides the configured target)")
	rootCmd.PersistentFlags().BoolVar(&noWake, "no-wake", false, "Skip the implicit wake before commands")

	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(pairCmd)
	rootCmd.AddCommand(unpairCmd)
	rootCmd.AddCommand(keyCmd)
	rootCmd.AddCommand(mediaCmd)
	rootCmd.AddCommand(textCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(remoteCmd)
}

// keyNames maps command-line key names to protocol keys
var keyNames = map[string]remote.Key{
	"up":     remote.KeyDPadUp,
	"down":   remote.KeyDPadDown,
	"left":   remote.KeyDPadLeft,
	"right":  remote.KeyDPadRight,
	"select": remote.KeySelect,
	"ok":     remote.KeySelect,
	"home":   remote.KeyHome,
	"back":   remote.KeyBack,
	"menu":   remote.KeyMenu,
}

// mediaNames maps command-line action names to media actions
var mediaNames = map[string]remote.MediaAction{
	"play":    remote.MediaPlay,
	"pause":   remote.MediaPause,
	"stop":    remote.MediaStop,
	"forward": remote.MediaScanForward,
	"rewind":  remote.MediaScanBackward,
}

// buildClient creates a control client for the effective target: the
// --device override when given, otherwise the registry's target
func buildClient(reg *config.Registry) (*remote.Client, error) {
	address := deviceAddr
	if address == "" {
		if !reg.HasTarget() {
			return nil, fmt.Errorf("no target device configured; run 'fireremote discover' first or pass --device")
		}
		address = reg.Target.Address
	}

	c := remote.NewClient(address)
	c.SetCredentialStore(reg)

	if prefs := reg.Preferences; prefs != nil {
		c.SetFriendlyName(prefs.FriendlyName)
		c.SetAutoWake(prefs.AutoWake)
		if prefs.RequestTimeout > 0 {
			c.SetTimeout(time.Duration(prefs.RequestTimeout) * time.Second)
		}
		if prefs.CommandSpacingMS > 0 {
			c.SetCommandSpacing(time.Duration(prefs.CommandSpacingMS) * time.Millisecond)
		}
	}
	if noWake {
		c.SetAutoWake(false)
	}
	if reg.Target != nil && reg.Target.Address == address {
		c.RestoreToken(reg.Target.Token)
	}
	c.SetEvents(remote.Events{
		RepairRequired: func() {
			fmt.Fprintln(os.Stderr, "The device rejected the pairing token. Run 'fireremote pair' to re-pair.")
		},
	})
	return c, nil
}

// remoteCmd launches the interactive TUI remote
var remoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Launch the interactive remote",
	Long: `Launch the interactive terminal remote.

Arrow keys drive the D-pad, enter selects, and dedicated keys cover
home/back/menu, media transport, and on-device text entry. This is the
default when fireremote runs without a subcommand.`,
	RunE: runRemote,
}

func runRemote(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("the interactive remote needs a terminal; use subcommands for scripting (see 'fireremote --help')")
	}

	reg, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if deviceAddr != "" {
		reg.SetTarget(deviceAddr, "")
	}
	return tui.Run(reg)
}

// discoverCmd scans the network for Fire TV devices
var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Scan for Fire TV devices on the network",
	Long: `Scan for Fire TV devices using mDNS discovery.

This command multicasts a service query for Fire TV's remote service and
lists every device that answers within the timeout.`,
	Example: `  # Scan with the default 6 second window
  fireremote discover

  # Longer scan for slow networks
  fireremote discover --timeout 15`,
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().IntVar(&scanTimeout, "timeout", 6, "Scan timeout in seconds")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	fmt.Printf("Scanning for Fire TV devices (timeout: %ds)...\n\n", scanTimeout)

	engine := discovery.NewEngine(discovery.Events{})
	engine.Timeout = time.Duration(scanTimeout) * time.Second

	devices, err := engine.Scan()
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(devices) == 0 {
		fmt.Println("No devices found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Ensure the Fire TV is powered on (not unplugged)")
		fmt.Println("  - Check that it is on the same network segment")
		fmt.Println("  - Try increasing --timeout for slower networks")
		fmt.Println("  - Use --device to specify the IP manually if discovery fails")
		return nil
	}

	reg, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	fmt.Printf("Found %d device(s):\n\n", len(devices))
	for i, d := range devices {
		fmt.Printf("%d. %s\n", i+1, d.Name)
		fmt.Printf("   Address: %s:%d\n", d.Address, d.Port)
		if d.Model != "" {
			fmt.Printf("   Model:   %s\n", d.Model)
		}
		fmt.Println()
		reg.RememberDevice(d.Address, d.Name, d.Model)
	}
	if err := reg.Save(); err != nil {
		return fmt.Errorf("failed to save device cache: %w", err)
	}

	fmt.Println("Use 'fireremote pair --device <ip>' to pair with a device")
	return nil
}

// pairCmd runs the PIN pairing handshake
var pairCmd = &cobra.Command{
	Use:   "pair",
	Short: "Pair with a Fire TV device",
	Long: `Pair with a Fire TV device through the on-screen PIN handshake.

The device displays a PIN on the TV screen; enter it here to complete
pairing. The resulting token is stored in the configuration file and used
for every subsequent command until the device invalidates it.`,
	Example: `  # Pair with the configured target
  fireremote pair

  # Pair with a specific device
  fireremote pair --device 192.168.1.40

  # Non-interactive (PIN already visible on screen)
  fireremote pair --pin 1234`,
	RunE: runPair,
}

func init() {
	pairCmd.Flags().StringVar(&pinFlag, "pin", "", "PIN shown on the TV (skips the display request)")
}

func runPair(cmd *cobra.Command, args []string) error {
	reg, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	client, err := buildClient(reg)
	if err != nil {
		return err
	}

	// Selecting an explicit device makes it the target for future commands
	if deviceAddr != "" {
		reg.SetTarget(deviceAddr, "")
	}

	pin := strings.TrimSpace(pinFlag)
	if pin == "" {
		fmt.Printf("Requesting PIN display on %s...\n", client.Address())
		if err := client.RequestPin(); err != nil {
			return fmt.Errorf("failed to request PIN: %w", err)
		}

		fmt.Print("Enter the PIN shown on your TV: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read PIN: %w", err)
		}
		pin = strings.TrimSpace(line)
	}

	if err := client.VerifyPin(pin); err != nil {
		return fmt.Errorf("pairing failed: %w", err)
	}
	fmt.Println("Paired successfully.")
	return nil
}

// unpairCmd drops the stored pairing token
var unpairCmd = &cobra.Command{
	Use:   "unpair",
	Short: "Forget the pairing with the target device",
	Long: `Drop the stored pairing token for the target device.

The device keeps its side of the pairing; running 'fireremote pair' again
issues a fresh token.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := config.LoadRegistry()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if !reg.Paired() {
			fmt.Println("Not paired with any device.")
			return nil
		}
		if err := reg.ClearCredentials(); err != nil {
			return fmt.Errorf("failed to clear credentials: %w", err)
		}
		fmt.Println("Pairing removed.")
		return nil
	},
}

// keyCmd sends a single remote key press
var keyCmd = &cobra.Command{
	Use:   "key <name>",
	Short: "Send a remote key press",
	Long: `Send a single remote key press to the target device.

Available keys: up, down, left, right, select, home, back, menu.
Directional keys and select are sent as a press-and-release pair.`,
	Example: `  fireremote key up
  fireremote key select
  fireremote key home`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, ok := keyNames[strings.ToLower(args[0])]
		if !ok {
			return fmt.Errorf("unknown key %q (available: %s)", args[0], strings.Join(sortedNames(keyNames), ", "))
		}

		client, err := loadClient()
		if err != nil {
			return err
		}
		if err := client.SendKey(key); err != nil {
			return fmt.Errorf("failed to send key: %w", err)
		}
		return nil
	},
}

// mediaCmd sends a media transport action
var mediaCmd = &cobra.Command{
	Use:   "media <action>",
	Short: "Send a media transport action",
	Long: `Send a media transport action to the target device.

Available actions: play, pause, stop, forward, rewind.
Scan actions accept optional --duration and --speed parameters.`,
	Example: `  fireremote media play
  fireremote media forward --duration 30
  fireremote media rewind --speed 2`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		action, ok := mediaNames[strings.ToLower(args[0])]
		if !ok {
			return fmt.Errorf("unknown media action %q (available: %s)", args[0], strings.Join(sortedNames(mediaNames), ", "))
		}

		client, err := loadClient()
		if err != nil {
			return err
		}
		if err := client.SendMedia(action, mediaDuration, mediaSpeed); err != nil {
			return fmt.Errorf("failed to send media action: %w", err)
		}
		return nil
	},
}

func init() {
	mediaCmd.Flags().IntVar(&mediaDuration, "duration", 0, "Scan duration in seconds")
	mediaCmd.Flags().IntVar(&mediaSpeed, "speed", 0, "Scan speed multiplier")
}

// textCmd types a string on the device
var textCmd = &cobra.Command{
	Use:   "text <string>",
	Short: "Type text on the device",
	Long: `Type a string on the target device, one character at a time.

Useful for search fields and password entry where on-screen keyboard
navigation is slow.`,
	Example: `  fireremote text "blade runner"`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := loadClient()
		if err != nil {
			return err
		}
		if err := client.SendText(args[0]); err != nil {
			return fmt.Errorf("failed to send text: %w", err)
		}
		return nil
	},
}

// statusCmd prints the device status document
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show target device status",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := loadClient()
		if err != nil {
			return err
		}
		status, err := client.GetStatus()
		if err != nil {
			return fmt.Errorf("failed to get status: %w", err)
		}

		keys := make([]string, 0, len(status))
		for k := range status {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("%-20s %v\n", k+":", status[k])
		}
		return nil
	},
}

// devicesCmd lists the cached devices and the current target
var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List known devices",
	Long:  `List devices seen during previous discovery scans, and the current target.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := config.LoadRegistry()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		if reg.HasTarget() {
			state := "unpaired"
			if reg.Paired() {
				state = "paired"
			}
			fmt.Printf("Target: %s (%s, %s)\n\n", reg.Target.Address, reg.Target.Name, state)
		} else {
			fmt.Println("No target device configured.")
			fmt.Println()
		}

		if len(reg.Devices) == 0 {
			fmt.Println("No cached devices. Run 'fireremote discover' to scan.")
			return nil
		}

		addrs := make([]string, 0, len(reg.Devices))
		for addr := range reg.Devices {
			addrs = append(addrs, addr)
		}
		sort.Strings(addrs)

		fmt.Println("Known devices:")
		for _, addr := range addrs {
			entry := reg.Devices[addr]
			fmt.Printf("  %-16s %s", addr, entry.Name)
			if entry.Model != "" {
				fmt.Printf(" (%s)", entry.Model)
			}
			if !entry.LastSeen.IsZero() {
				fmt.Printf("  last seen %s", entry.LastSeen.Format("2006-01-02 15:04"))
			}
			fmt.Println()
		}
		return nil
	},
}

// loadClient loads the registry and builds the control client in one step
func loadClient() (*remote.Client, error) {
	reg, err := config.LoadRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return buildClient(reg)
}

// sortedNames returns the sorted key set of a name map
func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
