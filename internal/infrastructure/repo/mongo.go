package repo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"halalfood-backend/internal/domain"
)

// MongoRepo stores each collection as plain documents. Money fields use the
// money type (Decimal128).
type MongoRepo struct {
	client  *mongo.Client
	users   *mongo.Collection
	menu    *mongo.Collection
	reviews *mongo.Collection
	carts   *mongo.Collection
	orders  *mongo.Collection
}

func NewMongoRepo(ctx context.Context, uri, dbName string) (*MongoRepo, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	db := client.Database(dbName)
	r := &MongoRepo{
		client:  client,
		users:   db.Collection("users"),
		menu:    db.Collection("menu"),
		reviews: db.Collection("reviews"),
		carts:   db.Collection("carts"),
		orders:  db.Collection("orders"),
	}
	if err := r.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return r, nil
}

func (r *MongoRepo) Close(ctx context.Context) error { return r.client.Disconnect(ctx) }

func (r *MongoRepo) ensureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	if _, err := r.users.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique}); err != nil {
		return err
	}
	if _, err := r.orders.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "transactionId", Value: 1}}, Options: unique}); err != nil {
		return err
	}
	_, err := r.carts.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "email", Value: 1}}})
	return err
}

type userDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Email     string             `bson:"email"`
	Name      string             `bson:"name,omitempty"`
	PhotoURL  string             `bson:"photoURL,omitempty"`
	Role      string             `bson:"role,omitempty"`
	CreatedAt time.Time          `bson:"createdAt,omitempty"`
}

type lineItemDoc struct {
	MenuItemID string `bson:"menuItemId,omitempty"`
	Name       string `bson:"name"`
	Price      money  `bson:"price"`
	Quantity   int    `bson:"quantity"`
}

type orderDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Cart          []lineItemDoc      `bson:"cart"`
	Total         money              `bson:"total"`
	Currency      string             `bson:"currency"`
	TransactionID string             `bson:"transactionId"`
	PaidStatus    bool               `bson:"paidStatus"`
	CreatedAt     time.Time          `bson:"createdAt,omitempty"`
}

type cartDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	MenuItemID string             `bson:"menuItemId"`
	Email      string             `bson:"email"`
	Name       string             `bson:"name"`
	Image      string             `bson:"image,omitempty"`
	Price      money              `bson:"price"`
	Quantity   int                `bson:"quantity"`
}

type menuDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Name     string             `bson:"name"`
	Recipe   string             `bson:"recipe"`
	Image    string             `bson:"image"`
	Category string             `bson:"category"`
	Price    money              `bson:"price"`
}

type reviewDoc struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	Name    string             `bson:"name"`
	Details string             `bson:"details"`
	Rating  int                `bson:"rating"`
}

// users

func (r *MongoRepo) InsertUserIfAbsent(ctx context.Context, u *domain.User) (string, bool, error) {
	doc := userDoc{Email: u.Email, Name: u.Name, PhotoURL: u.PhotoURL, Role: u.Role, CreatedAt: u.CreatedAt}
	res, err := r.users.UpdateOne(ctx,
		bson.M{"email": u.Email},
		bson.M{"$setOnInsert": doc},
		options.Update().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if res.UpsertedID == nil {
		return "", false, nil
	}
	oid, _ := res.UpsertedID.(primitive.ObjectID)
	return oid.Hex(), true, nil
}

func (r *MongoRepo) GetUserByEmail(ctx context.Context, email string) (*domain.User, bool, error) {
	var doc userDoc
	err := r.users.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	u := doc.toDomain()
	return &u, true, nil
}

func (r *MongoRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	var docs []userDoc
	if err := findAll(ctx, r.users, bson.M{}, &docs); err != nil {
		return nil, err
	}
	out := make([]domain.User, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *MongoRepo) SetUserRole(ctx context.Context, id, role string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, nil
	}
	res, err := r.users.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"role": role}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (d userDoc) toDomain() domain.User {
	return domain.User{ID: d.ID.Hex(), Email: d.Email, Name: d.Name, PhotoURL: d.PhotoURL, Role: d.Role, CreatedAt: d.CreatedAt}
}

// orders

func (r *MongoRepo) InsertOrder(ctx context.Context, o *domain.Order) (string, error) {
	doc := orderDoc{
		Total:         money{o.Total},
		Currency:      o.Currency,
		TransactionID: o.TransactionID,
		PaidStatus:    o.PaidStatus,
		CreatedAt:     o.CreatedAt,
	}
	for _, it := range o.Cart {
		doc.Cart = append(doc.Cart, lineItemDoc{MenuItemID: it.MenuItemID, Name: it.Name, Price: money{it.Price}, Quantity: it.Quantity})
	}
	res, err := r.orders.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return "", domain.ErrDuplicate
	}
	if err != nil {
		return "", err
	}
	return insertedHex(res), nil
}

func (r *MongoRepo) GetOrderByTransactionID(ctx context.Context, tranID string) (*domain.Order, bool, error) {
	var doc orderDoc
	err := r.orders.FindOne(ctx, bson.M{"transactionId": tranID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	o := doc.toDomain()
	return &o, true, nil
}

func (r *MongoRepo) ListOrders(ctx context.Context) ([]domain.Order, error) {
	var docs []orderDoc
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.orders.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *MongoRepo) MarkOrderPaid(ctx context.Context, tranID string) (int64, error) {
	res, err := r.orders.UpdateOne(ctx,
		bson.M{"transactionId": tranID, "paidStatus": false},
		bson.M{"$set": bson.M{"paidStatus": true}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *MongoRepo) DeleteUnpaidOrder(ctx context.Context, tranID string) (int64, error) {
	res, err := r.orders.DeleteOne(ctx, bson.M{"transactionId": tranID, "paidStatus": false})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (d orderDoc) toDomain() domain.Order {
	o := domain.Order{
		ID:            d.ID.Hex(),
		Total:         d.Total.Decimal,
		Currency:      d.Currency,
		TransactionID: d.TransactionID,
		PaidStatus:    d.PaidStatus,
		CreatedAt:     d.CreatedAt,
		Cart:          make([]domain.LineItem, 0, len(d.Cart)),
	}
	for _, it := range d.Cart {
		o.Cart = append(o.Cart, domain.LineItem{MenuItemID: it.MenuItemID, Name: it.Name, Price: it.Price.Decimal, Quantity: it.Quantity})
	}
	return o
}

// carts

func (r *MongoRepo) ListCartItems(ctx context.Context, email string) ([]domain.CartItem, error) {
	var docs []cartDoc
	if err := findAll(ctx, r.carts, bson.M{"email": email}, &docs); err != nil {
		return nil, err
	}
	out := make([]domain.CartItem, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.CartItem{
			ID:         d.ID.Hex(),
			MenuItemID: d.MenuItemID,
			Email:      d.Email,
			Name:       d.Name,
			Image:      d.Image,
			Price:      d.Price.Decimal,
			Quantity:   d.Quantity,
		})
	}
	return out, nil
}

func (r *MongoRepo) InsertCartItem(ctx context.Context, it *domain.CartItem) (string, error) {
	res, err := r.carts.InsertOne(ctx, cartDoc{
		MenuItemID: it.MenuItemID,
		Email:      it.Email,
		Name:       it.Name,
		Image:      it.Image,
		Price:      money{it.Price},
		Quantity:   it.Quantity,
	})
	if err != nil {
		return "", err
	}
	return insertedHex(res), nil
}

func (r *MongoRepo) DeleteCartItem(ctx context.Context, id string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, nil
	}
	res, err := r.carts.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// catalog

func (r *MongoRepo) ListMenu(ctx context.Context) ([]domain.MenuItem, error) {
	var docs []menuDoc
	if err := findAll(ctx, r.menu, bson.M{}, &docs); err != nil {
		return nil, err
	}
	out := make([]domain.MenuItem, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.MenuItem{
			ID:       d.ID.Hex(),
			Name:     d.Name,
			Recipe:   d.Recipe,
			Image:    d.Image,
			Category: d.Category,
			Price:    d.Price.Decimal,
		})
	}
	return out, nil
}

func (r *MongoRepo) ListReviews(ctx context.Context) ([]domain.Review, error) {
	var docs []reviewDoc
	if err := findAll(ctx, r.reviews, bson.M{}, &docs); err != nil {
		return nil, err
	}
	out := make([]domain.Review, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.Review{ID: d.ID.Hex(), Name: d.Name, Details: d.Details, Rating: d.Rating})
	}
	return out, nil
}

func findAll(ctx context.Context, coll *mongo.Collection, filter any, out any) error {
	cur, err := coll.Find(ctx, filter)
	if err != nil {
		return err
	}
	return cur.All(ctx, out)
}

func insertedHex(res *mongo.InsertOneResult) string {
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return ""
}
