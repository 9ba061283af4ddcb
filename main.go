package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"sort"

	"knivets.com/blockattack/attack"
	"knivets.com/blockattack/second"
	"knivets.com/blockattack/third"
)

// ChallengeError reports which challenge failed.
type ChallengeError struct {
	ID  int
	Err error
}

func (e *ChallengeError) Error() string {
	return fmt.Sprintf("challenge %d: %v", e.ID, e.Err)
}

func (e *ChallengeError) Unwrap() error { return e.Err }

var challenges = map[int]func(*Config) ([]byte, error){
	9: func(*Config) ([]byte, error) { return second.Ninth() },
	10: func(c *Config) ([]byte, error) {
		return second.Tenth(c.cbcInput)
	},
	11: func(c *Config) ([]byte, error) { return second.Eleventh(c.ModeRounds) },
	12: func(c *Config) ([]byte, error) {
		return second.Twelfth(c.secret, attack.MaxQueries(c.QueryBudget))
	},
	13: func(c *Config) ([]byte, error) {
		return second.Thirteenth(attack.MaxQueries(c.QueryBudget))
	},
	14: func(c *Config) ([]byte, error) {
		return second.Fourteenth(c.secret, c.MaxPrefix, attack.MaxQueries(c.QueryBudget))
	},
	15: func(*Config) ([]byte, error) { return second.Fifteenth() },
	16: func(*Config) ([]byte, error) { return second.Sixteenth() },
	17: func(c *Config) ([]byte, error) {
		return third.Seventeenth(c.PaddingOracleLines, attack.MaxQueries(c.QueryBudget))
	},
}

// runChallenge runs one challenge and returns what it recovered.
func runChallenge(id int, cfg *Config) ([]byte, error) {
	fn, ok := challenges[id]
	if !ok {
		return nil, &ChallengeError{ID: id, Err: errors.New("no such challenge")}
	}
	res, err := fn(cfg)
	if err != nil {
		return nil, &ChallengeError{ID: id, Err: err}
	}
	return res, nil
}

func challengeIDs() []int {
	ids := make([]int, 0, len(challenges))
	for id := range challenges {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func main() {
	configPath := flag.String("config", "", "YAML file overriding the built-in challenge data")
	id := flag.Int("challenge", 0, "challenge to run; 0 runs all")
	verbose := flag.Bool("v", false, "print recovered plaintext")
	flag.Parse()

	log.SetFlags(0)
	log.SetPrefix("blockattack: ")

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	ids := challengeIDs()
	if *id != 0 {
		ids = []int{*id}
	}
	for _, n := range ids {
		res, err := runChallenge(n, cfg)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("challenge %d: ok", n)
		if *verbose {
			fmt.Printf("%s\n", res)
		}
	}
}
