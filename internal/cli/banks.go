package cli

import "adaptive-quiz-service/internal/domain"

// sampleBanks is the built-in physics practice used when no Postgres is configured.
func sampleBanks(contentID string) map[string]domain.QuestionBank {
	e, m, h := domain.Easy, domain.Medium, domain.Hard
	return map[string]domain.QuestionBank{
		contentID: {
			ContentID: contentID,
			Pools: map[domain.Difficulty][]domain.Question{
				e: {
					{ID: "1", Difficulty: e, Prompt: "What is the SI unit of force?", Options: []string{"Joule", "Newton", "Watt", "Pascal"}, CorrectIndex: 1},
					{ID: "2", Difficulty: e, Prompt: "Which of the following is a vector quantity?", Options: []string{"Speed", "Distance", "Velocity", "Time"}, CorrectIndex: 2},
					{ID: "3", Difficulty: e, Prompt: "What is the acceleration due to gravity on Earth?", Options: []string{"9.8 m/s²", "10.8 m/s²", "8.9 m/s²", "11.2 m/s²"}, CorrectIndex: 0},
				},
				m: {
					{ID: "4", Difficulty: m, Prompt: "A car travels at a constant speed of 60 km/h for 2 hours. What distance does it cover?", Options: []string{"100 km", "120 km", "140 km", "160 km"}, CorrectIndex: 1},
					{ID: "5", Difficulty: m, Prompt: "What is the formula for kinetic energy?", Options: []string{"KE = mv", "KE = ½mv²", "KE = mv²", "KE = ½mv"}, CorrectIndex: 1},
					{ID: "6", Difficulty: m, Prompt: "At what angle should a projectile be launched for maximum range?", Options: []string{"30°", "45°", "60°", "90°"}, CorrectIndex: 1},
				},
				h: {
					{ID: "7", Difficulty: h, Prompt: "Find the distance covered by a particle during the time interval t=0 and t=4s for which the speed time graph is shown in figure;", Options: []string{"40 meters", "80 meters", "60 meters", "100 meters"}, CorrectIndex: 1, HasDiagram: true},
					{ID: "8", Difficulty: h, Prompt: "A block of mass 5kg is pulled by a force of 20N at an angle of 30° to the horizontal. If the coefficient of friction is 0.3, what is the acceleration?", Options: []string{"1.2 m/s²", "2.1 m/s²", "3.4 m/s²", "4.2 m/s²"}, CorrectIndex: 0},
					{ID: "9", Difficulty: h, Prompt: "Two blocks of masses 3kg and 5kg are connected by a string over a pulley. What is the acceleration of the system?", Options: []string{"2.45 m/s²", "3.68 m/s²", "4.12 m/s²", "5.23 m/s²"}, CorrectIndex: 0},
				},
			},
		},
	}
}
