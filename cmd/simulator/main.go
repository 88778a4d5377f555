package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dom/fantasy-cricket-draft/internal/domain"
	"github.com/dom/fantasy-cricket-draft/internal/mockdraft"
	"github.com/dom/fantasy-cricket-draft/internal/service"
	"github.com/google/uuid"
)

func main() {
	teams := flag.Int("teams", 8, "Number of teams in the draft (2-12)")
	position := flag.Int("position", 1, "Your 1-based draft position")
	playersFile := flag.String("players", "", "JSON file with the player pool (generated pool if empty)")
	seed := flag.Int64("seed", 0, "Random seed (0 = time-based)")
	flag.Parse()

	if *teams < 2 || *teams > 12 {
		fmt.Println("Error: --teams must be between 2 and 12")
		os.Exit(1)
	}
	if *position < 1 || *position > *teams {
		fmt.Printf("Error: --position must be between 1 and %d\n", *teams)
		os.Exit(1)
	}

	pool, err := loadPool(*playersFile, *teams)
	if err != nil {
		fmt.Printf("Error loading players: %v\n", err)
		os.Exit(1)
	}

	quotas := domain.RosterQuotas{
		ActiveSize:       11,
		BenchSize:        4,
		MinBatsmen:       3,
		MaxBatsmen:       6,
		MinBowlers:       3,
		MinWicketKeepers: 1,
		MinAllRounders:   1,
		MaxOverseas:      4,
	}

	opts := []mockdraft.Option{mockdraft.WithBotDelay(300 * time.Millisecond)}
	if *seed != 0 {
		opts = append(opts, mockdraft.WithRand(rand.New(rand.NewSource(*seed))))
	}
	sim := mockdraft.New(*teams, quotas, service.NewRatingRanker(), pool, opts...)
	sim.Start(*position)

	byID := make(map[uuid.UUID]*domain.Player, len(pool))
	for _, p := range pool {
		byID[p.ID] = p
	}

	fmt.Printf("=== Mock Draft: %d teams, you pick at position %d ===\n", *teams, *position)
	fmt.Println("Commands: pick <n>, best, board, roster, quit")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for !sim.IsComplete() {
		if !sim.IsUserTurn() {
			sim.RunBotPicks()
			printRecentPicks(sim, byID, *teams)
			if sim.IsComplete() {
				break
			}
		}

		round, _ := sim.CurrentTurn()
		fmt.Printf("\n[Round %d] Your pick. Top available:\n", round)
		available := sim.Available()
		for i, p := range available {
			if i >= 10 {
				break
			}
			fmt.Printf("  %2d. %s\n", i+1, describe(p))
		}

		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "quit", "q":
			sim.Reset()
			return
		case "board":
			printBoard(sim, byID)
			continue
		case "roster":
			printRoster(sim, byID, *position-1)
			continue
		case "best":
			if len(available) == 0 {
				fmt.Println("No players left.")
				continue
			}
			mustPick(sim, available[0])
		case "pick":
			if len(fields) < 2 {
				fmt.Println("Usage: pick <n>")
				continue
			}
			n, err := strconv.Atoi(fields[1])
			if err != nil || n < 1 || n > len(available) {
				fmt.Println("Invalid pick number.")
				continue
			}
			mustPick(sim, available[n-1])
		default:
			fmt.Println("Commands: pick <n>, best, board, roster, quit")
			continue
		}
	}

	fmt.Println("\n=== Draft complete ===")
	printRoster(sim, byID, *position-1)
}

func mustPick(sim *mockdraft.Simulator, player *domain.Player) {
	if err := sim.MakeUserPick(player.ID); err != nil {
		fmt.Printf("Pick failed: %v\n", err)
		return
	}
	fmt.Printf("You drafted %s\n", describe(player))
}

func describe(p *domain.Player) string {
	overseas := ""
	if p.IsOverseas {
		overseas = " [OS]"
	}
	return fmt.Sprintf("%-24s %-13s %s  %d%s", p.Name, p.Role, p.Team, p.Rating, overseas)
}

func printRecentPicks(sim *mockdraft.Simulator, byID map[uuid.UUID]*domain.Player, teams int) {
	picks := sim.Picks()
	start := len(picks) - teams
	if start < 0 {
		start = 0
	}
	for _, pick := range picks[start:] {
		if p := byID[pick.PlayerID]; p != nil {
			fmt.Printf("  R%d P%d (team %d): %s\n", pick.Round, pick.Position, pick.TeamIndex+1, p.Name)
		}
	}
}

func printBoard(sim *mockdraft.Simulator, byID map[uuid.UUID]*domain.Player) {
	for _, pick := range sim.Picks() {
		name := "?"
		if p := byID[pick.PlayerID]; p != nil {
			name = p.Name
		}
		fmt.Printf("  R%-2d P%-2d team %-2d  %s\n", pick.Round, pick.Position, pick.TeamIndex+1, name)
	}
}

func printRoster(sim *mockdraft.Simulator, byID map[uuid.UUID]*domain.Player, teamIndex int) {
	fmt.Println("Your roster:")
	for _, id := range sim.Roster(teamIndex) {
		if p := byID[id]; p != nil {
			fmt.Printf("  %s\n", describe(p))
		}
	}
}

// loadPool reads a JSON player array, or fabricates a rating-graded pool big
// enough for the draft when no file is given.
func loadPool(path string, teams int) ([]*domain.Player, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var players []*domain.Player
		if err := json.Unmarshal(data, &players); err != nil {
			return nil, err
		}
		for _, p := range players {
			if p.ID == uuid.Nil {
				p.ID = uuid.New()
			}
			if !p.Role.Valid() {
				return nil, fmt.Errorf("player %q has invalid role %q", p.Name, p.Role)
			}
		}
		return players, nil
	}
	return generatePool(teams * 20), nil
}

var franchises = []string{"MUM", "CHE", "BLR", "KOL", "DEL", "PUN", "RAJ", "HYD"}

var roleLabels = map[domain.PlayerRole]string{
	domain.RoleBatsman:      "Batsman",
	domain.RoleBowler:       "Bowler",
	domain.RoleWicketKeeper: "Keeper",
	domain.RoleAllRounder:   "AllRounder",
}

func generatePool(size int) []*domain.Player {
	roles := []domain.PlayerRole{
		domain.RoleBatsman, domain.RoleBatsman, domain.RoleBowler, domain.RoleBowler,
		domain.RoleAllRounder, domain.RoleWicketKeeper,
	}
	players := make([]*domain.Player, size)
	for i := range players {
		role := roles[i%len(roles)]
		players[i] = &domain.Player{
			ID:         uuid.New(),
			Name:       fmt.Sprintf("%s %02d", roleLabels[role], i+1),
			Team:       franchises[i%len(franchises)],
			Role:       role,
			IsOverseas: i%3 == 0,
			Rating:     1000 - i,
		}
	}
	return players
}
