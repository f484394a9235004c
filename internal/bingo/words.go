// internal/bingo/words.go
package bingo

// DefaultWords is the stock pool used when a game is created without a
// custom word list.
var DefaultWords = []string{
	"Coffee", "Book", "Phone", "Car", "Tree", "House", "Dog", "Cat", "Sun", "Moon",
	"Star", "Rain", "Snow", "Fire", "Water", "Music", "Dance", "Sing", "Run", "Jump",
	"Walk", "Smile", "Laugh", "Cry", "Happy", "Sad", "Love", "Peace", "Hope", "Dream",
	"Friend", "Family", "Home", "Work", "Play", "Learn", "Teach", "Help", "Share", "Care",
	"Food", "Pizza", "Burger", "Apple", "Orange", "Cake", "Ice Cream", "Chocolate", "Tea", "Juice",
	"Game", "Sport", "Ball", "Bike", "Beach", "Mountain", "Ocean", "River", "Forest", "Flower",
	"Bird", "Fish", "Horse", "Butterfly", "Rainbow", "Cloud", "Wind", "Thunder", "Light", "Shadow",
	"Red", "Blue", "Green", "Yellow", "Purple", "Pink", "Tangerine", "Black", "White", "Silver",
}
