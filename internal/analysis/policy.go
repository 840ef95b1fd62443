package analysis

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// policyFile is the on-disk shape of a scoring policy override:
//
//	platforms:
//	  instagram:
//	    reach:
//	      hashtag_bonus: 0.2
//
// Fields not present keep their built-in defaults.
type policyFile struct {
	Platforms map[string]yaml.Node `yaml:"platforms"`
}

// LoadProfiles returns the built-in profiles with the overrides of the YAML file at
// path applied. An empty path returns the defaults.
func LoadProfiles(path string) (map[string]PlatformProfile, error) {
	profiles := DefaultProfiles()
	if path == "" {
		return profiles, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}

	return applyPolicy(profiles, data)
}

func applyPolicy(profiles map[string]PlatformProfile, data []byte) (map[string]PlatformProfile, error) {
	var file policyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse policy YAML: %w", err)
	}

	for name, node := range file.Platforms {
		profile, ok := profiles[name]
		if !ok {
			profile = PlatformProfile{Name: name, Ranking: defaultRanking()}
		}
		if err := node.Decode(&profile); err != nil {
			return nil, fmt.Errorf("invalid policy for %s: %w", name, err)
		}
		profile.Name = name

		if err := validateProfile(profile); err != nil {
			return nil, fmt.Errorf("invalid policy for %s: %w", name, err)
		}

		profiles[name] = profile
		logrus.Infof("Applied scoring policy override for %s", name)
	}

	return profiles, nil
}

func validateProfile(p PlatformProfile) error {
	for _, w := range []float64{p.Weights.Likes, p.Weights.Comments, p.Weights.Shares, p.Weights.Views,
		p.Reach.Weights.Likes, p.Reach.Weights.Comments, p.Reach.Weights.Shares, p.Reach.Weights.Views,
		p.Reach.ImpressionsPerPoint, p.Reach.HashtagBonus, p.Reach.InfluencerMultiplier, p.Reach.VerifiedMultiplier} {
		if w < 0 {
			return fmt.Errorf("weights and multipliers must be non-negative")
		}
	}

	for media, m := range p.Reach.MediaMultipliers {
		if m < 0 {
			return fmt.Errorf("media multiplier for %s must be non-negative", media)
		}
	}

	if p.Ranking.Limit <= 0 || p.Ranking.Limit > MaxInfluencers {
		return fmt.Errorf("ranking limit must be between 1 and %d", MaxInfluencers)
	}

	switch p.Sentiment.Combine {
	case "", CombineCounts:
	case CombineOverride:
		if p.Sentiment.Signal == nil {
			return fmt.Errorf("combine %q needs an engagement signal", CombineOverride)
		}
	default:
		return fmt.Errorf("unknown sentiment combine rule %q", p.Sentiment.Combine)
	}

	if s := p.Sentiment.Signal; s != nil && s.Kind != SignalLikesPerComment && s.Kind != SignalWeightedRatio {
		return fmt.Errorf("unknown engagement signal kind %q", s.Kind)
	}

	return nil
}
