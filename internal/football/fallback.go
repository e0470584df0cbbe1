package football

import "time"

// Static stand-ins served when FOOTBALL_API_KEY is unset, so the fixtures and
// roster pages render something meaningful against an empty environment.

func fallbackFixtures() []Match {
	return []Match{
		{
			ID:          1,
			UTCDate:     time.Date(2025, 5, 25, 15, 0, 0, 0, time.UTC),
			Competition: "Premier League",
			HomeTeam:    "Chelsea FC",
			AwayTeam:    "Nottingham Forest FC",
			Status:      "FINISHED",
			Score:       "1-0",
		},
		{
			ID:          2,
			UTCDate:     time.Date(2025, 5, 16, 19, 30, 0, 0, time.UTC),
			Competition: "Premier League",
			HomeTeam:    "Chelsea FC",
			AwayTeam:    "Manchester United FC",
			Status:      "FINISHED",
			Score:       "1-0",
		},
		{
			ID:          3,
			UTCDate:     time.Date(2025, 5, 11, 11, 0, 0, 0, time.UTC),
			Competition: "Premier League",
			HomeTeam:    "Newcastle United FC",
			AwayTeam:    "Chelsea FC",
			Status:      "FINISHED",
			Score:       "2-0",
		},
	}
}

func fallbackSquad() []Player {
	return []Player{
		{ID: 1, Name: "Robert Sánchez", Position: "Goalkeeper", Nationality: "Spain", ShirtNumber: 1},
		{ID: 2, Name: "Reece James", Position: "Right-Back", Nationality: "England", ShirtNumber: 24},
		{ID: 3, Name: "Levi Colwill", Position: "Centre-Back", Nationality: "England", ShirtNumber: 6},
		{ID: 4, Name: "Enzo Fernández", Position: "Central Midfield", Nationality: "Argentina", ShirtNumber: 8},
		{ID: 5, Name: "Moisés Caicedo", Position: "Defensive Midfield", Nationality: "Ecuador", ShirtNumber: 25},
		{ID: 6, Name: "Cole Palmer", Position: "Attacking Midfield", Nationality: "England", ShirtNumber: 10},
		{ID: 7, Name: "Nicolas Jackson", Position: "Centre-Forward", Nationality: "Senegal", ShirtNumber: 15},
	}
}
