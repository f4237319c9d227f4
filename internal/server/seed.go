package server

import (
	"context"
	"log/slog"

	"github.com/hotseatgames/millionaire/internal/millionaire"
)

// SeedQuestions fills an empty question catalog with a built-in bank of
// two questions per level, difficulty rising with the level. Idempotent:
// does nothing once any questions exist.
func SeedQuestions(ctx context.Context, logger *slog.Logger, store Store) error {
	count, err := store.CountQuestions(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, q := range seedBank {
		if err := store.InsertQuestion(ctx, q); err != nil {
			return err
		}
	}

	logger.Info("seeded question bank", "questions", len(seedBank))
	return nil
}

func seedQuestion(level int, text, correct string, distractors ...string) millionaire.Question {
	return millionaire.Question{
		Level:       level,
		Text:        text,
		Correct:     correct,
		Distractors: distractors,
	}
}

var seedBank = []millionaire.Question{
	seedQuestion(0, "How many days are there in a week?", "Seven", "Five", "Six", "Eight"),
	seedQuestion(0, "What color is a ripe banana?", "Yellow", "Blue", "Purple", "Silver"),
	seedQuestion(1, "Which animal is known as man's best friend?", "Dog", "Cat", "Hamster", "Goldfish"),
	seedQuestion(1, "What do bees produce?", "Honey", "Milk", "Silk", "Wax paper"),
	seedQuestion(2, "How many continents are there on Earth?", "Seven", "Five", "Six", "Nine"),
	seedQuestion(2, "Which season comes after summer?", "Autumn", "Winter", "Spring", "Monsoon"),
	seedQuestion(3, "What is the capital of France?", "Paris", "Lyon", "Marseille", "Brussels"),
	seedQuestion(3, "Which planet is closest to the Sun?", "Mercury", "Venus", "Mars", "Jupiter"),
	seedQuestion(4, "Who painted the Mona Lisa?", "Leonardo da Vinci", "Michelangelo", "Raphael", "Donatello"),
	seedQuestion(4, "What is the largest ocean on Earth?", "Pacific", "Atlantic", "Indian", "Arctic"),
	seedQuestion(5, "Which element has the chemical symbol O?", "Oxygen", "Gold", "Osmium", "Oganesson"),
	seedQuestion(5, "In which country are the pyramids of Giza?", "Egypt", "Mexico", "Sudan", "Peru"),
	seedQuestion(6, "Who wrote 'Romeo and Juliet'?", "William Shakespeare", "Charles Dickens", "Jane Austen", "Oscar Wilde"),
	seedQuestion(6, "What is the longest river in the world?", "The Nile", "The Amazon", "The Yangtze", "The Mississippi"),
	seedQuestion(7, "How many strings does a standard violin have?", "Four", "Five", "Six", "Seven"),
	seedQuestion(7, "Which gas makes up most of Earth's atmosphere?", "Nitrogen", "Oxygen", "Carbon dioxide", "Hydrogen"),
	seedQuestion(8, "In which year did the Berlin Wall fall?", "1989", "1985", "1991", "1979"),
	seedQuestion(8, "What is the smallest prime number?", "Two", "One", "Three", "Zero"),
	seedQuestion(9, "Who developed the theory of general relativity?", "Albert Einstein", "Isaac Newton", "Niels Bohr", "Max Planck"),
	seedQuestion(9, "Which country hosted the first modern Olympic Games?", "Greece", "France", "England", "Italy"),
	seedQuestion(10, "What is the currency of Switzerland?", "Swiss franc", "Euro", "Swiss krone", "Florin"),
	seedQuestion(10, "Which composer wrote 'The Four Seasons'?", "Antonio Vivaldi", "Johann Sebastian Bach", "Wolfgang Amadeus Mozart", "Joseph Haydn"),
	seedQuestion(11, "What is the rarest naturally occurring blood type?", "AB negative", "O negative", "B positive", "A negative"),
	seedQuestion(11, "Which planet has the most moons confirmed to date?", "Saturn", "Jupiter", "Uranus", "Neptune"),
	seedQuestion(12, "Who was the first woman to win a Nobel Prize?", "Marie Curie", "Rosalind Franklin", "Lise Meitner", "Dorothy Hodgkin"),
	seedQuestion(12, "What is the deepest point in the world's oceans?", "Challenger Deep", "Puerto Rico Trench", "Java Deep", "Tonga Trench"),
	seedQuestion(13, "In what year was the Rosetta Stone discovered?", "1799", "1789", "1812", "1822"),
	seedQuestion(13, "Which mathematician proved Fermat's Last Theorem?", "Andrew Wiles", "Grigori Perelman", "Terence Tao", "Paul Erdos"),
	seedQuestion(14, "What is the only letter that does not appear in any US state name?", "Q", "Z", "X", "J"),
	seedQuestion(14, "Which ancient wonder stood at Halicarnassus?", "The Mausoleum", "The Colossus", "The Lighthouse", "The Hanging Gardens"),
}
