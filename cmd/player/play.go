package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dmateos82/tunecase/internal/domain"
	"github.com/dmateos82/tunecase/internal/gateway"
	"github.com/dmateos82/tunecase/internal/localstate"
	"github.com/dmateos82/tunecase/internal/player"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Scan the library and start interactive playback",
	RunE:  runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	cat, state, err := loadCatalog(cmd, true)
	if err != nil {
		return err
	}
	defer state.Close()

	settings, err := state.Settings()
	if err != nil {
		return err
	}

	client := gateway.NewClient(cfg.GatewayURL, nil)
	outbox := gateway.NewOutbox(log)
	defer outbox.Close()

	session := player.NewSession(player.NewBeepFactory(), cat, log, settings)
	defer session.Close()

	session.OnSettingsChanged = func(update domain.SettingsUpdate) {
		if _, err := state.UpdateSettings(update); err != nil {
			log.Warn("Failed to save settings", "error", err)
		}
		outbox.Submit(gateway.Task{
			Name: "update settings",
			Run: func(ctx context.Context) error {
				_, err := client.UpdateSettings(ctx, update)
				return err
			},
		})
	}
	session.OnSongStarted = func(song domain.Song) {
		entry := domain.PlayHistoryEntry{
			ID:         uuid.New().String(),
			SongID:     song.ID,
			Song:       &song,
			PlayedDate: time.Now().UTC(),
		}
		if err := state.AppendHistory(entry); err != nil {
			log.Warn("Failed to record play locally", "error", err)
		}
		outbox.Submit(gateway.Task{
			Name: "record play " + song.ID,
			Run: func(ctx context.Context) error {
				_, err := client.RecordPlay(ctx, song.ID, 0)
				return err
			},
		})
	}

	fmt.Printf("%d playable songs in %d folders. Type h for help.\n",
		len(cat.PlayableSongs()), len(cat.Folders()))

	if err := session.SkipNext(); err != nil {
		fmt.Println("Nothing to play: every folder is deselected.")
	}

	return commandLoop(session, cat, state, client, outbox)
}

func commandLoop(session *player.Session, cat catalogView, state *localstate.Store, client *gateway.Client, outbox *gateway.Outbox) error {
	input := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !input.Scan() {
			return input.Err()
		}
		fields := strings.Fields(input.Text())
		if len(fields) == 0 {
			printStatus(session.Status())
			continue
		}
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "q", "quit":
			return nil
		case "h", "help":
			printHelp()
		case "i", "status":
			printStatus(session.Status())
		case "p", "pause":
			session.TogglePlayPause()
			printStatus(session.Status())
		case "n", "next":
			if err := session.SkipNext(); err != nil {
				fmt.Println(err)
			}
		case "b", "prev":
			if err := session.SkipPrevious(); err != nil {
				fmt.Println(err)
			}
		case "s", "shuffle":
			if session.ToggleShuffle() {
				fmt.Println("Shuffle on.")
			} else {
				fmt.Println("Shuffle off.")
			}
		case "r", "repeat":
			fmt.Printf("Repeat mode: %s\n", session.CycleRepeat())
		case "+":
			session.SetVolume(session.Status().Volume + 0.1)
			fmt.Printf("Volume: %.0f%%\n", session.Status().Volume*100)
		case "-":
			session.SetVolume(session.Status().Volume - 0.1)
			fmt.Printf("Volume: %.0f%%\n", session.Status().Volume*100)
		case "v", "volume":
			if len(args) != 1 {
				fmt.Println("Usage: v <0..1>")
				continue
			}
			v, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				fmt.Println("Usage: v <0..1>")
				continue
			}
			session.SetVolume(v)
			fmt.Printf("Volume: %.0f%%\n", session.Status().Volume*100)
		case "seek":
			if len(args) != 1 {
				fmt.Println("Usage: seek <seconds>")
				continue
			}
			secs, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				fmt.Println("Usage: seek <seconds>")
				continue
			}
			if err := session.Seek(time.Duration(secs * float64(time.Second))); err != nil {
				fmt.Println(err)
			}
		case "f", "fav":
			toggleFavorite(session, state, client, outbox)
		case "folders":
			printFolders(cat.Folders())
		case "toggle":
			if len(args) != 1 {
				fmt.Println("Usage: toggle <number|path>")
				continue
			}
			toggleFolderInteractive(cat, state, args[0])
		case "sleep":
			handleSleep(session, args)
		default:
			fmt.Printf("Unknown command %q, type h for help.\n", cmd)
		}
	}
}

// catalogView is the slice of the catalog the command loop needs.
type catalogView interface {
	Folders() []domain.Folder
	ToggleFolder(path string) bool
	SelectedPaths() []string
	PlayableSongs() []domain.Song
}

func toggleFavorite(session *player.Session, state *localstate.Store, client *gateway.Client, outbox *gateway.Outbox) {
	status := session.Status()
	if status.Song == nil {
		fmt.Println("Nothing is playing.")
		return
	}
	song := *status.Song
	favorited, err := state.ToggleFavorite(song.ID)
	if err != nil {
		fmt.Println(err)
		return
	}
	if favorited {
		fmt.Printf("Added %s to favorites.\n", song.Title)
		outbox.Submit(gateway.Task{
			Name: "add favorite " + song.ID,
			Run: func(ctx context.Context) error {
				_, err := client.AddFavorite(ctx, song.ID)
				return err
			},
		})
	} else {
		fmt.Printf("Removed %s from favorites.\n", song.Title)
		outbox.Submit(gateway.Task{
			Name: "remove favorite " + song.ID,
			Run: func(ctx context.Context) error {
				return client.RemoveFavorite(ctx, song.ID)
			},
		})
	}
}

func toggleFolderInteractive(cat catalogView, state *localstate.Store, arg string) {
	folders := cat.Folders()
	path := arg
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(folders) {
			fmt.Printf("Folder number out of range: %d\n", n)
			return
		}
		path = folders[n-1].Path
	}

	cat.ToggleFolder(path)
	paths := cat.SelectedPaths()
	if _, err := state.UpdateSettings(domain.SettingsUpdate{SelectedFolders: &paths}); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("%d playable songs.\n", len(cat.PlayableSongs()))
	if len(paths) == 0 {
		fmt.Println("Warning: every folder is deselected, nothing is playable.")
	}
}

func handleSleep(session *player.Session, args []string) {
	if len(args) != 1 {
		fmt.Println("Usage: sleep <minutes> | sleep off")
		return
	}
	if args[0] == "off" {
		session.CancelSleepTimer()
		fmt.Println("Sleep timer cancelled.")
		return
	}
	minutes, err := strconv.Atoi(args[0])
	if err != nil || minutes < 1 {
		fmt.Println("Usage: sleep <minutes> | sleep off")
		return
	}
	session.SetSleepTimer(time.Duration(minutes) * time.Minute)
	fmt.Printf("Playback will pause in %d minutes.\n", minutes)
}

func printStatus(status player.Status) {
	if status.Song == nil {
		fmt.Printf("[%s]\n", status.State)
		return
	}
	fmt.Printf("[%s] %s - %s  %s/%s  vol %.0f%%  shuffle %s  repeat %s\n",
		status.State, status.Song.Artist, status.Song.Title,
		fmtDuration(status.Position), fmtDuration(status.Duration),
		status.Volume*100, onOff(status.Shuffle), status.Repeat)
	if !status.SleepAt.IsZero() {
		fmt.Printf("Sleep timer fires in %s.\n", time.Until(status.SleepAt).Round(time.Second))
	}
}

func printHelp() {
	fmt.Print(`Commands:
  p           play/pause            n  next song
  b           previous song         s  toggle shuffle
  r           cycle repeat mode     f  toggle favorite
  + / -       volume up/down        v <0..1>  set volume
  seek <s>    seek to second        i  show status
  folders     list folders          toggle <n|path>  toggle folder
  sleep <m>   pause after m min     sleep off  cancel timer
  q           quit
`)
}

func fmtDuration(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
