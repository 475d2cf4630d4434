package datastore

// FurnitureSchema defines the single inventory table. Name is the business key;
// Id is internal only.
const FurnitureSchema = `CREATE TABLE IF NOT EXISTS Furniture (
		Id INTEGER PRIMARY KEY AUTOINCREMENT,
		Name TEXT NOT NULL UNIQUE,
		Description TEXT NOT NULL,
		Price REAL NOT NULL,
		Height INTEGER NOT NULL,
		Width INTEGER NOT NULL,
		Length INTEGER NOT NULL
	)`

const (
	insertFurniture = `INSERT INTO Furniture (Name, Description, Price, Height, Width, Length)
		VALUES (?, ?, ?, ?, ?, ?)`

	selectFurniture = `SELECT Name, Description, Price, Height, Width, Length FROM Furniture`

	updateFurniture = `UPDATE Furniture
		SET Description = ?, Price = ?, Height = ?, Width = ?, Length = ?
		WHERE Name = ?`

	deleteFurniture = `DELETE FROM Furniture WHERE Name = ?`
)
