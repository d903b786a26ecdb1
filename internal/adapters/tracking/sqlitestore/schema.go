package sqlitestore

const schema = `
CREATE TABLE IF NOT EXISTS datasets (
    id TEXT PRIMARY KEY,
    home_gk TEXT,
    away_gk TEXT,
    home_direction REAL,
    away_direction REAL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS events (
    dataset_id TEXT NOT NULL,
    idx INTEGER NOT NULL,
    team TEXT NOT NULL,
    type TEXT,
    subtype TEXT,
    period INTEGER,
    start_frame INTEGER,
    start_time REAL,
    end_frame INTEGER,
    end_time REAL,
    from_player TEXT,
    to_player TEXT,
    start_x REAL,
    start_y REAL,
    end_x REAL,
    end_y REAL,
    PRIMARY KEY (dataset_id, idx)
);

CREATE TABLE IF NOT EXISTS frames (
    dataset_id TEXT NOT NULL,
    number INTEGER NOT NULL,
    period INTEGER,
    time REAL,
    ball_x REAL,
    ball_y REAL,
    PRIMARY KEY (dataset_id, number)
);

CREATE TABLE IF NOT EXISTS positions (
    dataset_id TEXT NOT NULL,
    frame INTEGER NOT NULL,
    seq INTEGER NOT NULL,
    team TEXT NOT NULL,
    player TEXT NOT NULL,
    x REAL,
    y REAL,
    vx REAL,
    vy REAL,
    PRIMARY KEY (dataset_id, frame, seq)
);
`
